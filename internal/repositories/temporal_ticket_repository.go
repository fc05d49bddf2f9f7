package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"alegria_backend/internal/models"
)

// TemporalTicketRepository persists the open tabs of the bar tables.
type TemporalTicketRepository interface {
	GetTickets() ([]models.TemporalTicket, error)
	GetTicketByID(executor SQLExecutor, id int64) (*models.TemporalTicket, error)
	GetTicketByTable(executor SQLExecutor, tableID int, location models.TableLocation) (*models.TemporalTicket, error)
	CreateTicket(executor SQLExecutor, ticket *models.TemporalTicket) (int64, error)
	UpdateTicketState(executor SQLExecutor, id int64, status models.TicketStatus, simpleInvoiceID *int64) error
	DeleteTicket(executor SQLExecutor, id int64) error

	AddProduct(executor SQLExecutor, product *models.TemporalProduct) (int64, error)
	GetProductByID(executor SQLExecutor, id int64) (*models.TemporalProduct, error)
	UpdateProduct(executor SQLExecutor, product *models.TemporalProduct) error
	DeleteProduct(executor SQLExecutor, id int64) error
	CountProducts(executor SQLExecutor, ticketID int64) (int, error)
}

type temporalTicketRepository struct {
	db *sql.DB
}

// NewTemporalTicketRepository creates a new instance of TemporalTicketRepository.
func NewTemporalTicketRepository(db *sql.DB) TemporalTicketRepository {
	return &temporalTicketRepository{db: db}
}

const ticketColumns = `id, table_id, ticket_location, ticket_status, simple_invoice_id`

const temporalProductColumns = `id, temporal_ticket_id, original_product_id, name, quantity, price`

func scanTicket(s scanner) (*models.TemporalTicket, error) {
	t := &models.TemporalTicket{}
	var invoiceID sql.NullInt64
	if err := s.Scan(&t.ID, &t.TableID, &t.Location, &t.Status, &invoiceID); err != nil {
		return nil, err
	}
	if invoiceID.Valid {
		t.SimpleInvoiceID = &invoiceID.Int64
	}
	t.Products = []models.TemporalProduct{}
	return t, nil
}

func scanTemporalProduct(s scanner) (*models.TemporalProduct, error) {
	p := &models.TemporalProduct{}
	if err := s.Scan(&p.ID, &p.TemporalTicketID, &p.OriginalProductID, &p.Name, &p.Quantity, &p.Price); err != nil {
		return nil, err
	}
	return p, nil
}

// GetTickets returns every open ticket with its products, ordered by id.
func (r *temporalTicketRepository) GetTickets() ([]models.TemporalTicket, error) {
	rows, err := r.db.Query(`SELECT ` + ticketColumns + ` FROM temporal_tickets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying temporal tickets: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tickets := []models.TemporalTicket{}
	index := map[int64]int{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning temporal ticket: %v", ErrDatabaseError, err)
		}
		index[t.ID] = len(tickets)
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating temporal ticket rows: %v", ErrDatabaseError, err)
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	productRows, err := r.db.Query(`SELECT ` + temporalProductColumns + ` FROM temporal_products ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying temporal products: %v", ErrDatabaseError, err)
	}
	defer productRows.Close()

	for productRows.Next() {
		p, err := scanTemporalProduct(productRows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning temporal product: %v", ErrDatabaseError, err)
		}
		if i, ok := index[p.TemporalTicketID]; ok {
			tickets[i].Products = append(tickets[i].Products, *p)
		}
	}
	if err := productRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating temporal product rows: %v", ErrDatabaseError, err)
	}
	return tickets, nil
}

func (r *temporalTicketRepository) GetTicketByID(executor SQLExecutor, id int64) (*models.TemporalTicket, error) {
	if executor == nil {
		executor = r.db
	}
	ticket, err := scanTicket(executor.QueryRow(`SELECT `+ticketColumns+` FROM temporal_tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting temporal ticket by ID %d: %v", ErrDatabaseError, id, err)
	}
	return r.withProducts(executor, ticket)
}

// GetTicketByTable finds the open ticket of a table, or ErrNotFound when the table is free.
func (r *temporalTicketRepository) GetTicketByTable(executor SQLExecutor, tableID int, location models.TableLocation) (*models.TemporalTicket, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + ticketColumns + ` FROM temporal_tickets WHERE table_id = $1 AND ticket_location = $2`
	ticket, err := scanTicket(executor.QueryRow(query, tableID, location))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting temporal ticket for table %d at %s: %v", ErrDatabaseError, tableID, location, err)
	}
	return r.withProducts(executor, ticket)
}

func (r *temporalTicketRepository) withProducts(executor SQLExecutor, ticket *models.TemporalTicket) (*models.TemporalTicket, error) {
	rows, err := executor.Query(`SELECT `+temporalProductColumns+` FROM temporal_products WHERE temporal_ticket_id = $1 ORDER BY id ASC`, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products of ticket %d: %v", ErrDatabaseError, ticket.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanTemporalProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning temporal product: %v", ErrDatabaseError, err)
		}
		ticket.Products = append(ticket.Products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating temporal product rows: %v", ErrDatabaseError, err)
	}
	return ticket, nil
}

func (r *temporalTicketRepository) CreateTicket(executor SQLExecutor, ticket *models.TemporalTicket) (int64, error) {
	query := `INSERT INTO temporal_tickets (table_id, ticket_location, ticket_status, simple_invoice_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, ticket.TableID, ticket.Location, ticket.Status, ticket.SimpleInvoiceID).Scan(&ticket.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating temporal ticket")
	}
	if ticket.Products == nil {
		ticket.Products = []models.TemporalProduct{}
	}
	return ticket.ID, nil
}

// UpdateTicketState sets the print status and the linked invoice together.
func (r *temporalTicketRepository) UpdateTicketState(executor SQLExecutor, id int64, status models.TicketStatus, simpleInvoiceID *int64) error {
	result, err := executor.Exec(`UPDATE temporal_tickets SET ticket_status = $1, simple_invoice_id = $2 WHERE id = $3`,
		status, simpleInvoiceID, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating temporal ticket ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("updating temporal ticket ID %d", id))
}

// DeleteTicket removes the ticket and its products.
func (r *temporalTicketRepository) DeleteTicket(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM temporal_products WHERE temporal_ticket_id = $1`, id); err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting products of temporal ticket ID %d", id))
	}
	result, err := executor.Exec(`DELETE FROM temporal_tickets WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting temporal ticket ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting temporal ticket ID %d", id))
}

func (r *temporalTicketRepository) AddProduct(executor SQLExecutor, product *models.TemporalProduct) (int64, error) {
	query := `INSERT INTO temporal_products (temporal_ticket_id, original_product_id, name, quantity, price)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query, product.TemporalTicketID, product.OriginalProductID, product.Name,
		product.Quantity, product.Price).Scan(&product.ID)
	if err != nil {
		return 0, mapWriteError(err, "adding temporal product")
	}
	return product.ID, nil
}

func (r *temporalTicketRepository) GetProductByID(executor SQLExecutor, id int64) (*models.TemporalProduct, error) {
	if executor == nil {
		executor = r.db
	}
	p, err := scanTemporalProduct(executor.QueryRow(`SELECT `+temporalProductColumns+` FROM temporal_products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting temporal product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return p, nil
}

func (r *temporalTicketRepository) UpdateProduct(executor SQLExecutor, product *models.TemporalProduct) error {
	result, err := executor.Exec(`UPDATE temporal_products SET quantity = $1, price = $2 WHERE id = $3`,
		product.Quantity, product.Price, product.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating temporal product ID %d", product.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating temporal product ID %d", product.ID))
}

func (r *temporalTicketRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM temporal_products WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting temporal product ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting temporal product ID %d", id))
}

func (r *temporalTicketRepository) CountProducts(executor SQLExecutor, ticketID int64) (int, error) {
	if executor == nil {
		executor = r.db
	}
	var count int
	if err := executor.QueryRow(`SELECT COUNT(*) FROM temporal_products WHERE temporal_ticket_id = $1`, ticketID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting products of temporal ticket ID %d: %v", ErrDatabaseError, ticketID, err)
	}
	return count, nil
}
