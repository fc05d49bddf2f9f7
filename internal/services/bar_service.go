package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
	"alegria_backend/pkg/utils"
)

var (
	ErrTicketNotFound          = errors.New("temporal ticket not found")
	ErrTemporalProductNotFound = errors.New("temporal product not found")
	ErrTicketLocked            = errors.New("ticket is printed and locked; unlock it first")
	ErrEmptyTicket             = errors.New("ticket has no products")
	ErrInvalidTable            = errors.New("table does not exist")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrReservationRequired     = errors.New("a room charge needs a reservation")
	ErrReservationNotOccupied  = errors.New("reservation is not occupied right now")
)

type AddProductToTableRequest struct {
	TableID   int                  `json:"table_id"`
	Location  models.TableLocation `json:"location"`
	ProductID int64                `json:"product_id" binding:"required"`
}

type UpdateTemporalProductRequest struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type PrintTicketRequest struct {
	TicketType models.TicketType `json:"ticket_type"`
}

type PayTicketRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	ReservationID *int64               `json:"reservation_id"`
	TicketType    *models.TicketType   `json:"ticket_type"` // renders a document when set
}

// TicketDocument is the invoice produced for a ticket together with its printable text.
type TicketDocument struct {
	Ticket   *models.TemporalTicket `json:"ticket,omitempty"`
	Invoice  *models.SimpleInvoice  `json:"invoice"`
	Document string                 `json:"document,omitempty"`
}

// BarService runs the open tabs of the bar, restaurant and garden tables.
type BarService interface {
	GetTickets() ([]models.TemporalTicket, error)
	GetTicketByID(ticketID int64) (*models.TemporalTicket, error)
	AddProductToTable(req AddProductToTableRequest) (*models.TemporalTicket, error)
	UpdateTemporalProduct(productID int64, req UpdateTemporalProductRequest) (*models.TemporalTicket, error)
	DeleteTemporalProduct(productID int64) (*models.TemporalTicket, error)
	DeleteTicket(ticketID int64) error
	PrintTicket(ticketID int64, req PrintTicketRequest) (*TicketDocument, error)
	UnlockTicket(ticketID int64) (*models.TemporalTicket, error)
	PayTicket(ticketID int64, req PayTicketRequest) (*TicketDocument, error)
}

type barService struct {
	ticketRepo      repositories.TemporalTicketRepository
	productRepo     repositories.ProductRepository
	invoiceRepo     repositories.SimpleInvoiceRepository
	reservationRepo repositories.ReservationRepository
	txManager       repositories.TxManager
	renderer        *DocumentRenderer
	now             func() time.Time
}

func NewBarService(
	ticketRepo repositories.TemporalTicketRepository,
	productRepo repositories.ProductRepository,
	invoiceRepo repositories.SimpleInvoiceRepository,
	reservationRepo repositories.ReservationRepository,
	txManager repositories.TxManager,
	renderer *DocumentRenderer,
) BarService {
	return &barService{
		ticketRepo:      ticketRepo,
		productRepo:     productRepo,
		invoiceRepo:     invoiceRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		renderer:        renderer,
		now:             time.Now,
	}
}

func (s *barService) GetTickets() ([]models.TemporalTicket, error) {
	tickets, err := s.ticketRepo.GetTickets()
	if err != nil {
		return nil, fmt.Errorf("failed to get temporal tickets: %w", err)
	}
	return tickets, nil
}

func (s *barService) GetTicketByID(ticketID int64) (*models.TemporalTicket, error) {
	return s.getTicket(nil, ticketID)
}

func (s *barService) getTicket(executor repositories.SQLExecutor, ticketID int64) (*models.TemporalTicket, error) {
	ticket, err := s.ticketRepo.GetTicketByID(executor, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get temporal ticket: %w", err)
	}
	return ticket, nil
}

// getUnlockedTicketOf loads the ticket owning a temporal product and refuses printed ones.
func (s *barService) getUnlockedTicketOf(tx repositories.SQLExecutor, productID int64) (*models.TemporalProduct, *models.TemporalTicket, error) {
	product, err := s.ticketRepo.GetProductByID(tx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrTemporalProductNotFound
		}
		return nil, nil, fmt.Errorf("failed to get temporal product: %w", err)
	}
	ticket, err := s.getTicket(tx, product.TemporalTicketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.IsLocked() {
		return nil, nil, ErrTicketLocked
	}
	return product, ticket, nil
}

// AddProductToTable opens the table's ticket if needed and adds one unit of the product.
// Garden tables are charged the outside price, the others the inside price.
func (s *barService) AddProductToTable(req AddProductToTableRequest) (*models.TemporalTicket, error) {
	if req.TableID < 0 || req.TableID >= models.TablesPerLocation {
		return nil, fmt.Errorf("%w: table %d", ErrInvalidTable, req.TableID)
	}
	if _, err := models.TableLocationFromID(req.Location.ID()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	var ticketID int64
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		product, err := s.productRepo.GetProductByID(tx, req.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		ticket, err := s.ticketRepo.GetTicketByTable(tx, req.TableID, req.Location)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			ticket = &models.TemporalTicket{
				TableID:  req.TableID,
				Location: req.Location,
				Status:   models.TicketStatusPending,
			}
			if _, err := s.ticketRepo.CreateTicket(tx, ticket); err != nil {
				return fmt.Errorf("failed to open ticket: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to get table ticket: %w", err)
		case ticket.IsLocked():
			return ErrTicketLocked
		}

		line := &models.TemporalProduct{
			TemporalTicketID:  ticket.ID,
			OriginalProductID: product.ID,
			Name:              product.Name,
			Quantity:          1,
			Price:             product.PriceFor(req.Location),
		}
		if _, err := s.ticketRepo.AddProduct(tx, line); err != nil {
			return fmt.Errorf("failed to add product to ticket: %w", err)
		}
		ticketID = ticket.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTicketByID(ticketID)
}

func (s *barService) UpdateTemporalProduct(productID int64, req UpdateTemporalProductRequest) (*models.TemporalTicket, error) {
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if err := nonNegative("price", req.Price); err != nil {
		return nil, err
	}

	var ticketID int64
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		product, ticket, err := s.getUnlockedTicketOf(tx, productID)
		if err != nil {
			return err
		}
		if req.Quantity != nil {
			product.Quantity = *req.Quantity
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if err := s.ticketRepo.UpdateProduct(tx, product); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTemporalProductNotFound
			}
			return fmt.Errorf("failed to update temporal product: %w", err)
		}
		ticketID = ticket.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTicketByID(ticketID)
}

// DeleteTemporalProduct removes a line. Removing the last line closes the ticket and returns nil.
func (s *barService) DeleteTemporalProduct(productID int64) (*models.TemporalTicket, error) {
	var ticketID int64
	closed := false
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		_, ticket, err := s.getUnlockedTicketOf(tx, productID)
		if err != nil {
			return err
		}
		if err := s.ticketRepo.DeleteProduct(tx, productID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTemporalProductNotFound
			}
			return fmt.Errorf("failed to delete temporal product: %w", err)
		}
		remaining, err := s.ticketRepo.CountProducts(tx, ticket.ID)
		if err != nil {
			return fmt.Errorf("failed to count ticket products: %w", err)
		}
		if remaining == 0 {
			if err := s.ticketRepo.DeleteTicket(tx, ticket.ID); err != nil {
				return fmt.Errorf("failed to close empty ticket: %w", err)
			}
			closed = true
		}
		ticketID = ticket.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, nil
	}
	return s.GetTicketByID(ticketID)
}

// DeleteTicket discards a tab. An unpaid invoice printed for it goes too.
func (s *barService) DeleteTicket(ticketID int64) error {
	return s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		ticket, err := s.getTicket(tx, ticketID)
		if err != nil {
			return err
		}
		if err := s.ticketRepo.DeleteTicket(tx, ticket.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTicketNotFound
			}
			return fmt.Errorf("failed to delete temporal ticket: %w", err)
		}
		if ticket.SimpleInvoiceID != nil {
			err := s.invoiceRepo.DropUnpaidInvoice(tx, *ticket.SimpleInvoiceID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("failed to drop ticket invoice: %w", err)
			}
		}
		return nil
	})
}

// ensureInvoice returns the ticket's invoice, creating it with one sold product per unit when missing.
func (s *barService) ensureInvoice(tx repositories.SQLExecutor, ticket *models.TemporalTicket) (int64, error) {
	if ticket.SimpleInvoiceID != nil {
		return *ticket.SimpleInvoiceID, nil
	}
	if len(ticket.Products) == 0 {
		return 0, ErrEmptyTicket
	}

	invoice := &models.SimpleInvoice{}
	for _, p := range ticket.Products {
		for i := 0; i < p.Quantity; i++ {
			invoice.Products = append(invoice.Products, models.SoldProduct{
				OriginalProductID: p.OriginalProductID,
				Name:              p.Name,
				Price:             p.Price,
			})
		}
	}
	id, err := s.invoiceRepo.CreateInvoice(tx, invoice)
	if err != nil {
		return 0, fmt.Errorf("failed to create invoice for ticket %d: %w", ticket.ID, err)
	}
	return id, nil
}

// PrintTicket locks the ticket behind an invoice and renders it.
func (s *barService) PrintTicket(ticketID int64, req PrintTicketRequest) (*TicketDocument, error) {
	ticketType := req.TicketType
	if ticketType == "" {
		ticketType = models.TicketTypeReceipt
	}
	if !models.IsValidTicketType(string(ticketType)) {
		return nil, fmt.Errorf("%w: unknown ticket type %q", ErrValidation, ticketType)
	}

	var invoiceID int64
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		ticket, err := s.getTicket(tx, ticketID)
		if err != nil {
			return err
		}
		invoiceID, err = s.ensureInvoice(tx, ticket)
		if err != nil {
			return err
		}
		return s.ticketRepo.UpdateTicketState(tx, ticket.ID, models.TicketStatusPrinted, &invoiceID)
	})
	if err != nil {
		return nil, err
	}

	ticket, err := s.GetTicketByID(ticketID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.GetInvoiceByID(nil, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load printed invoice: %w", err)
	}
	utils.LogInfo("Ticket printed", map[string]interface{}{"ticket_id": ticketID, "invoice_id": invoiceID, "type": string(ticketType)})
	return &TicketDocument{Ticket: ticket, Invoice: invoice, Document: s.renderer.Render(invoice, ticketType)}, nil
}

// UnlockTicket reopens a printed ticket for edits and discards its unpaid invoice.
func (s *barService) UnlockTicket(ticketID int64) (*models.TemporalTicket, error) {
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		ticket, err := s.getTicket(tx, ticketID)
		if err != nil {
			return err
		}
		if !ticket.IsLocked() && ticket.SimpleInvoiceID == nil {
			return nil
		}
		if err := s.ticketRepo.UpdateTicketState(tx, ticket.ID, models.TicketStatusPending, nil); err != nil {
			return fmt.Errorf("failed to unlock ticket: %w", err)
		}
		if ticket.SimpleInvoiceID != nil {
			err := s.invoiceRepo.DropUnpaidInvoice(tx, *ticket.SimpleInvoiceID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("failed to drop ticket invoice: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTicketByID(ticketID)
}

// PayTicket settles the ticket and closes it. Cash and card mark the invoice paid;
// a room charge leaves it unpaid and attaches it to a reservation in progress.
func (s *barService) PayTicket(ticketID int64, req PayTicketRequest) (*TicketDocument, error) {
	if _, err := models.PaymentMethodFromID(req.PaymentMethod.ID()); err != nil {
		return nil, ErrInvalidPaymentMethod
	}
	if req.TicketType != nil && !models.IsValidTicketType(string(*req.TicketType)) {
		return nil, fmt.Errorf("%w: unknown ticket type %q", ErrValidation, *req.TicketType)
	}

	var reservationID *int64
	paid := true
	if req.PaymentMethod == models.PaymentMethodRoomCharge {
		if req.ReservationID == nil {
			return nil, ErrReservationRequired
		}
		reservation, err := s.reservationRepo.GetReservationByID(nil, *req.ReservationID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrReservationNotFound
			}
			return nil, fmt.Errorf("failed to get reservation: %w", err)
		}
		if !reservation.IsOccupiedAt(s.now()) {
			return nil, ErrReservationNotOccupied
		}
		reservationID = &reservation.ID
		paid = false
	}

	var invoiceID int64
	err := s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		ticket, err := s.getTicket(tx, ticketID)
		if err != nil {
			return err
		}
		invoiceID, err = s.ensureInvoice(tx, ticket)
		if err != nil {
			return err
		}
		if err := s.invoiceRepo.SetPayment(tx, invoiceID, req.PaymentMethod, paid, reservationID); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		if err := s.ticketRepo.DeleteTicket(tx, ticket.ID); err != nil {
			return fmt.Errorf("failed to close paid ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetInvoiceByID(nil, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load paid invoice: %w", err)
	}
	utils.LogInfo("Ticket paid", map[string]interface{}{"ticket_id": ticketID, "invoice_id": invoiceID, "payment_method": req.PaymentMethod.String()})

	result := &TicketDocument{Invoice: invoice}
	if req.TicketType != nil {
		result.Document = s.renderer.Render(invoice, *req.TicketType)
	}
	return result, nil
}
