package services

import (
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

var (
	ErrInvoiceNotFound     = errors.New("simple invoice not found")
	ErrInvalidReportPeriod = errors.New("invalid report period")
)

// maxReportDays bounds the sales report period.
const maxReportDays = 366

type SimpleInvoiceService interface {
	GetInvoices(req PageRequest) (*Page[models.SimpleInvoice], error)
	GetInvoiceByID(id int64) (*models.SimpleInvoice, error)
	MarkInvoicePaid(id int64) (*models.SimpleInvoice, error)
	DeleteInvoice(id int64) error
	RenderInvoice(id int64, ticketType models.TicketType) (*TicketDocument, error)
	GetSalesReport(params models.ReportRequestParams) ([]models.SalesReportItem, error)
}

type simpleInvoiceService struct {
	invoiceRepo repositories.SimpleInvoiceRepository
	db          repositories.SQLExecutor
	renderer    *DocumentRenderer
	now         func() time.Time
}

func NewSimpleInvoiceService(invoiceRepo repositories.SimpleInvoiceRepository, db repositories.SQLExecutor, renderer *DocumentRenderer) SimpleInvoiceService {
	return &simpleInvoiceService{invoiceRepo: invoiceRepo, db: db, renderer: renderer, now: time.Now}
}

func (s *simpleInvoiceService) GetInvoices(req PageRequest) (*Page[models.SimpleInvoice], error) {
	return paginate(req, s.invoiceRepo.CountInvoices, s.invoiceRepo.GetInvoices)
}

func (s *simpleInvoiceService) GetInvoiceByID(id int64) (*models.SimpleInvoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByID(nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get simple invoice by ID: %w", err)
	}
	return invoice, nil
}

// MarkInvoicePaid settles an invoice, typically a room charge paid at checkout.
func (s *simpleInvoiceService) MarkInvoicePaid(id int64) (*models.SimpleInvoice, error) {
	if err := s.invoiceRepo.MarkInvoicePaid(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to mark simple invoice paid: %w", err)
	}
	return s.GetInvoiceByID(id)
}

func (s *simpleInvoiceService) DeleteInvoice(id int64) error {
	if err := s.invoiceRepo.DeleteInvoice(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to delete simple invoice: %w", err)
	}
	return nil
}

func (s *simpleInvoiceService) RenderInvoice(id int64, ticketType models.TicketType) (*TicketDocument, error) {
	if ticketType == "" {
		ticketType = models.TicketTypeInvoice
	}
	if !models.IsValidTicketType(string(ticketType)) {
		return nil, fmt.Errorf("%w: unknown ticket type %q", ErrValidation, ticketType)
	}
	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	return &TicketDocument{Invoice: invoice, Document: s.renderer.Render(invoice, ticketType)}, nil
}

// GetSalesReport totals invoices per day and payment method. Dates are inclusive
// and default to the last seven days.
func (s *simpleInvoiceService) GetSalesReport(params models.ReportRequestParams) ([]models.SalesReportItem, error) {
	today := s.now().Truncate(24 * time.Hour)
	start, end := today.AddDate(0, 0, -6), today

	if params.StartDate != "" {
		t, err := time.Parse(dateLayout, params.StartDate)
		if err != nil {
			return nil, ErrDateFormat
		}
		start = t
	}
	if params.EndDate != "" {
		t, err := time.Parse(dateLayout, params.EndDate)
		if err != nil {
			return nil, ErrDateFormat
		}
		end = t
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidReportPeriod)
	}
	if end.Sub(start) > maxReportDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period longer than %d days", ErrInvalidReportPeriod, maxReportDays)
	}

	items, err := s.invoiceRepo.GetSalesReport(start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to build sales report: %w", err)
	}
	return items, nil
}
