package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"alegria_backend/internal/models"
)

// BusinessInfo is the venue header printed on every document.
type BusinessInfo struct {
	Name    string
	TaxID   string
	Address string
}

// DocumentRenderer lays an invoice out as plain text for the ticket printer.
type DocumentRenderer struct {
	business BusinessInfo
}

func NewDocumentRenderer(business BusinessInfo) *DocumentRenderer {
	return &DocumentRenderer{business: business}
}

type documentLine struct {
	name     string
	quantity int
	price    decimal.Decimal
}

// groupSoldProducts folds the one-row-per-unit products back into lines.
func groupSoldProducts(products []models.SoldProduct) []documentLine {
	lines := []documentLine{}
	index := map[string]int{}
	for _, p := range products {
		key := fmt.Sprintf("%d|%s|%s", p.OriginalProductID, p.Name, p.Price.StringFixed(2))
		if i, ok := index[key]; ok {
			lines[i].quantity++
			continue
		}
		index[key] = len(lines)
		lines = append(lines, documentLine{name: p.Name, quantity: 1, price: p.Price})
	}
	return lines
}

// Render produces a receipt, or a full invoice when ticketType is TicketTypeInvoice.
func (r *DocumentRenderer) Render(invoice *models.SimpleInvoice, ticketType models.TicketType) string {
	var buf bytes.Buffer

	buf.WriteString(r.business.Name + "\n")
	if ticketType == models.TicketTypeInvoice {
		if r.business.TaxID != "" {
			buf.WriteString("NIF: " + r.business.TaxID + "\n")
		}
		if r.business.Address != "" {
			buf.WriteString(r.business.Address + "\n")
		}
		fmt.Fprintf(&buf, "Invoice no. %06d\n", invoice.ID)
	} else {
		fmt.Fprintf(&buf, "Receipt no. %d\n", invoice.ID)
	}
	buf.WriteString(invoice.CreatedAt.Format("2006-01-02 15:04") + "\n")
	buf.WriteString(strings.Repeat("-", 32) + "\n")

	tw := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Qty\tItem\tPrice\tAmount\t")
	total := decimal.Zero
	for _, line := range groupSoldProducts(invoice.Products) {
		amount := line.price.Mul(decimal.NewFromInt(int64(line.quantity)))
		total = total.Add(amount)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", line.quantity, line.name, line.price.StringFixed(2), amount.StringFixed(2))
	}
	tw.Flush()

	buf.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&buf, "TOTAL: %s\n", total.StringFixed(2))
	if invoice.PaymentMethod != nil {
		fmt.Fprintf(&buf, "Payment: %s\n", invoice.PaymentMethod.String())
	}
	if ticketType == models.TicketTypeInvoice {
		buf.WriteString("Taxes included\n")
	}
	return buf.String()
}
