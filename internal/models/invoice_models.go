package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimpleInvoice is the document produced when a bar ticket is printed or paid.
type SimpleInvoice struct {
	ID            int64           `json:"id" db:"id"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty" db:"payment_method_id"`
	ReservationID *int64          `json:"reservation_id,omitempty" db:"reservation_id"`
	Paid          bool            `json:"paid" db:"paid"`
	IsDeleted     bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Products      []SoldProduct   `json:"products,omitempty"`
	Total         decimal.Decimal `json:"total"`
}

// SoldProduct is one unit sold on an invoice.
type SoldProduct struct {
	ID                int64           `json:"id" db:"id"`
	SimpleInvoiceID   int64           `json:"simple_invoice_id" db:"simple_invoice_id"`
	OriginalProductID int64           `json:"original_product_id" db:"original_product_id"`
	Name              string          `json:"name" db:"name"`
	Price             decimal.Decimal `json:"price" db:"price"`
}

// RecalculateTotal sets Total from the sold products.
func (i *SimpleInvoice) RecalculateTotal() {
	total := decimal.Zero
	for _, p := range i.Products {
		total = total.Add(p.Price)
	}
	i.Total = total
}
