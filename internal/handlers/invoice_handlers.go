package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/models"
	"alegria_backend/internal/services"
)

// InvoiceHandler serves the simple invoices management screen.
type InvoiceHandler struct {
	invoiceService  services.SimpleInvoiceService
	defaultPageSize int
}

func NewInvoiceHandler(is services.SimpleInvoiceService, defaultPageSize int) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is, defaultPageSize: defaultPageSize}
}

func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}
	page, err := h.invoiceService.GetInvoices(pageReq)
	if err != nil {
		respondServiceError(c, err, "GetInvoices: Error from invoiceService.GetInvoices", "Failed to fetch invoices.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoiceByID(id)
	if err != nil {
		respondServiceError(c, err, "GetInvoiceByID: Error from invoiceService.GetInvoiceByID", "Failed to fetch invoice.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// MarkInvoicePaid settles an invoice left unpaid by a room charge.
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.MarkInvoicePaid(id)
	if err != nil {
		respondServiceError(c, err, "MarkInvoicePaid: Error from invoiceService.MarkInvoicePaid", "Failed to mark invoice paid.")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(id); err != nil {
		respondServiceError(c, err, "DeleteInvoice: Error from invoiceService.DeleteInvoice", "Failed to delete invoice.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// RenderInvoice returns the printable document. ?type=receipt|invoice, invoice by default.
// ?format=text answers with the bare document as text/plain.
func (h *InvoiceHandler) RenderInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	doc, err := h.invoiceService.RenderInvoice(id, models.TicketType(c.Query("type")))
	if err != nil {
		respondServiceError(c, err, "RenderInvoice: Error from invoiceService.RenderInvoice", "Failed to render invoice.")
		return
	}
	if c.Query("format") == "text" {
		c.String(http.StatusOK, doc.Document)
		return
	}
	c.JSON(http.StatusOK, doc)
}
