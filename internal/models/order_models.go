package models

import "github.com/shopspring/decimal"

// TablesPerLocation is the number of tables laid out in each TableLocation.
const TablesPerLocation = 30

// TemporalTicket is the open tab of a table. It lives until it is paid or deleted.
type TemporalTicket struct {
	ID              int64             `json:"id" db:"id"`
	TableID         int               `json:"table_id" db:"table_id"`
	Location        TableLocation     `json:"location" db:"ticket_location"`
	Status          TicketStatus      `json:"status" db:"ticket_status"`
	SimpleInvoiceID *int64            `json:"simple_invoice_id,omitempty" db:"simple_invoice_id"`
	Products        []TemporalProduct `json:"products"`
}

// Total sums price * quantity over the ticket lines.
func (t *TemporalTicket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.Products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}

// IsLocked reports whether the ticket was printed and must not change.
func (t *TemporalTicket) IsLocked() bool {
	return t.Status == TicketStatusPrinted
}

// TemporalProduct is a line of a TemporalTicket. Name and price are copied from
// the product when added so later catalogue edits don't alter open tabs.
type TemporalProduct struct {
	ID                int64           `json:"id" db:"id"`
	TemporalTicketID  int64           `json:"temporal_ticket_id" db:"temporal_ticket_id"`
	OriginalProductID int64           `json:"original_product_id" db:"original_product_id"`
	Name              string          `json:"name" db:"name"`
	Quantity          int             `json:"quantity" db:"quantity"`
	Price             decimal.Decimal `json:"price" db:"price"`
}
