package models

import "github.com/shopspring/decimal"

// SalesReportItem aggregates invoiced sales for one day and payment method.
type SalesReportItem struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	InvoiceCount  int             `json:"invoice_count"`
	ItemsSold     int             `json:"items_sold"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	Paid          decimal.Decimal `json:"paid"`
	Outstanding   decimal.Decimal `json:"outstanding"` // charged to rooms, not settled yet
}

// ReportRequestParams holds common parameters for requesting reports.
type ReportRequestParams struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
}
