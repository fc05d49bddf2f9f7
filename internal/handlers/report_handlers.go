package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/models"
	"alegria_backend/internal/services"
)

// ReportHandler serves the sales reports built from simple invoices.
type ReportHandler struct {
	invoiceService services.SimpleInvoiceService
}

func NewReportHandler(is services.SimpleInvoiceService) *ReportHandler {
	return &ReportHandler{invoiceService: is}
}

// parseReportRequestParams reads the common report query parameters.
func parseReportRequestParams(c *gin.Context) models.ReportRequestParams {
	return models.ReportRequestParams{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

// GetSalesReport totals invoiced sales per day and payment method.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	items, err := h.invoiceService.GetSalesReport(parseReportRequestParams(c))
	if err != nil {
		respondServiceError(c, err, "GetSalesReport: Error from invoiceService.GetSalesReport", "Failed to build sales report.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
