package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
)

// SimpleInvoiceRepository persists invoices and the units sold on them.
type SimpleInvoiceRepository interface {
	CreateInvoice(executor SQLExecutor, invoice *models.SimpleInvoice) (int64, error)
	GetInvoiceByID(executor SQLExecutor, id int64) (*models.SimpleInvoice, error)
	CountInvoices() (int, error)
	GetInvoices(offset, limit int) ([]models.SimpleInvoice, error)
	GetInvoicesByReservation(reservationID int64) ([]models.SimpleInvoice, error)
	SetPayment(executor SQLExecutor, id int64, method models.PaymentMethod, paid bool, reservationID *int64) error
	MarkInvoicePaid(executor SQLExecutor, id int64) error
	DeleteInvoice(executor SQLExecutor, id int64) error
	DropUnpaidInvoice(executor SQLExecutor, id int64) error
	GetSalesReport(start, end time.Time) ([]models.SalesReportItem, error)
}

type simpleInvoiceRepository struct {
	db *sql.DB
}

// NewSimpleInvoiceRepository creates a new instance of SimpleInvoiceRepository.
func NewSimpleInvoiceRepository(db *sql.DB) SimpleInvoiceRepository {
	return &simpleInvoiceRepository{db: db}
}

const invoiceColumns = `si.id, si.payment_method_id, si.reservation_id, si.paid, si.is_deleted, si.created_at, si.updated_at,
	COALESCE((SELECT SUM(sp.price) FROM sold_products sp WHERE sp.simple_invoice_id = si.id), 0)`

func scanInvoice(s scanner) (*models.SimpleInvoice, error) {
	inv := &models.SimpleInvoice{}
	var method, reservationID sql.NullInt64
	err := s.Scan(&inv.ID, &method, &reservationID, &inv.Paid, &inv.IsDeleted, &inv.CreatedAt, &inv.UpdatedAt, &inv.Total)
	if err != nil {
		return nil, err
	}
	if method.Valid {
		pm, err := models.PaymentMethodFromID(method.Int64)
		if err != nil {
			return nil, err
		}
		inv.PaymentMethod = &pm
	}
	if reservationID.Valid {
		inv.ReservationID = &reservationID.Int64
	}
	return inv, nil
}

// CreateInvoice inserts the invoice and one sold_products row per product.
func (r *simpleInvoiceRepository) CreateInvoice(executor SQLExecutor, invoice *models.SimpleInvoice) (int64, error) {
	query := `INSERT INTO simple_invoices (payment_method_id, reservation_id, paid, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, FALSE, $4, $5)
	          RETURNING id`

	now := time.Now()
	invoice.CreatedAt, invoice.UpdatedAt = now, now
	err := executor.QueryRow(query, invoice.PaymentMethod, invoice.ReservationID, invoice.Paid, now, now).Scan(&invoice.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating simple invoice")
	}

	for i := range invoice.Products {
		p := &invoice.Products[i]
		p.SimpleInvoiceID = invoice.ID
		err := executor.QueryRow(`INSERT INTO sold_products (simple_invoice_id, original_product_id, name, price)
		          VALUES ($1, $2, $3, $4) RETURNING id`,
			p.SimpleInvoiceID, p.OriginalProductID, p.Name, p.Price).Scan(&p.ID)
		if err != nil {
			return 0, mapWriteError(err, fmt.Sprintf("adding sold product to invoice %d", invoice.ID))
		}
	}
	invoice.RecalculateTotal()
	return invoice.ID, nil
}

func (r *simpleInvoiceRepository) GetInvoiceByID(executor SQLExecutor, id int64) (*models.SimpleInvoice, error) {
	if executor == nil {
		executor = r.db
	}
	invoice, err := scanInvoice(executor.QueryRow(`SELECT `+invoiceColumns+` FROM simple_invoices si WHERE si.id = $1 AND si.is_deleted = FALSE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting simple invoice by ID %d: %v", ErrDatabaseError, id, err)
	}

	rows, err := executor.Query(`SELECT id, simple_invoice_id, original_product_id, name, price
	          FROM sold_products WHERE simple_invoice_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sold products of invoice %d: %v", ErrDatabaseError, id, err)
	}
	defer rows.Close()

	invoice.Products = []models.SoldProduct{}
	for rows.Next() {
		var p models.SoldProduct
		if err := rows.Scan(&p.ID, &p.SimpleInvoiceID, &p.OriginalProductID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("%w: scanning sold product: %v", ErrDatabaseError, err)
		}
		invoice.Products = append(invoice.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sold product rows: %v", ErrDatabaseError, err)
	}
	invoice.RecalculateTotal()
	return invoice, nil
}

func (r *simpleInvoiceRepository) CountInvoices() (int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM simple_invoices WHERE is_deleted = FALSE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting simple invoices: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// GetInvoices returns one window of invoices, newest first, with totals but no lines.
func (r *simpleInvoiceRepository) GetInvoices(offset, limit int) ([]models.SimpleInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM simple_invoices si
	          WHERE si.is_deleted = FALSE
	          ORDER BY si.id DESC
	          LIMIT $1 OFFSET $2`
	return r.queryInvoices(query, limit, offset)
}

// GetInvoicesByReservation lists the bar invoices charged to a stay.
func (r *simpleInvoiceRepository) GetInvoicesByReservation(reservationID int64) ([]models.SimpleInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM simple_invoices si
	          WHERE si.reservation_id = $1 AND si.is_deleted = FALSE
	          ORDER BY si.id ASC`
	return r.queryInvoices(query, reservationID)
}

func (r *simpleInvoiceRepository) queryInvoices(query string, args ...interface{}) ([]models.SimpleInvoice, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying simple invoices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	invoices := []models.SimpleInvoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning simple invoice: %v", ErrDatabaseError, err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating simple invoice rows: %v", ErrDatabaseError, err)
	}
	return invoices, nil
}

// SetPayment records how the invoice is settled. A room charge passes the reservation and paid=false.
func (r *simpleInvoiceRepository) SetPayment(executor SQLExecutor, id int64, method models.PaymentMethod, paid bool, reservationID *int64) error {
	query := `UPDATE simple_invoices SET payment_method_id = $1, paid = $2, reservation_id = $3, updated_at = $4
	          WHERE id = $5 AND is_deleted = FALSE`
	result, err := executor.Exec(query, method, paid, reservationID, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("setting payment of simple invoice ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("setting payment of simple invoice ID %d", id))
}

func (r *simpleInvoiceRepository) MarkInvoicePaid(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE simple_invoices SET paid = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("marking simple invoice ID %d paid", id))
	}
	return expectAffected(result, fmt.Sprintf("marking simple invoice ID %d paid", id))
}

func (r *simpleInvoiceRepository) DeleteInvoice(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE simple_invoices SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting simple invoice ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting simple invoice ID %d", id))
}

// DropUnpaidInvoice removes an unpaid invoice and its lines for good, used when a printed ticket is unlocked.
func (r *simpleInvoiceRepository) DropUnpaidInvoice(executor SQLExecutor, id int64) error {
	_, err := executor.Exec(`DELETE FROM sold_products
	          WHERE simple_invoice_id = (SELECT id FROM simple_invoices WHERE id = $1 AND paid = FALSE)`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("dropping sold products of simple invoice ID %d", id))
	}
	result, err := executor.Exec(`DELETE FROM simple_invoices WHERE id = $1 AND paid = FALSE`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("dropping simple invoice ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("dropping simple invoice ID %d", id))
}

// GetSalesReport aggregates invoices created in [start, end) by day and payment method.
func (r *simpleInvoiceRepository) GetSalesReport(start, end time.Time) ([]models.SalesReportItem, error) {
	query := `SELECT TO_CHAR(si.created_at, 'YYYY-MM-DD') AS day, si.payment_method_id,
	            COUNT(DISTINCT si.id), COUNT(sp.id),
	            COALESCE(SUM(sp.price), 0),
	            COALESCE(SUM(sp.price) FILTER (WHERE si.paid), 0),
	            COALESCE(SUM(sp.price) FILTER (WHERE NOT si.paid), 0)
	          FROM simple_invoices si
	          LEFT JOIN sold_products sp ON sp.simple_invoice_id = si.id
	          WHERE si.is_deleted = FALSE AND si.created_at >= $1 AND si.created_at < $2
	          GROUP BY day, si.payment_method_id
	          ORDER BY day ASC, si.payment_method_id ASC NULLS LAST`

	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.SalesReportItem{}
	for rows.Next() {
		var item models.SalesReportItem
		var method sql.NullInt64
		if err := rows.Scan(&item.Date, &method, &item.InvoiceCount, &item.ItemsSold,
			&item.TotalSales, &item.Paid, &item.Outstanding); err != nil {
			return nil, fmt.Errorf("%w: scanning sales report row: %v", ErrDatabaseError, err)
		}
		if method.Valid {
			pm, err := models.PaymentMethodFromID(method.Int64)
			if err != nil {
				return nil, fmt.Errorf("%w: sales report: %v", ErrDatabaseError, err)
			}
			item.PaymentMethod = &pm
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales report rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}
