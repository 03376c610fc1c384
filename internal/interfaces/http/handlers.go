package http

import (
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-generator/internal/application/service"
	"github.com/garyjia/invoice-generator/internal/invoice"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

//go:embed static/index.html
var indexHTML []byte

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService service.InvoiceService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(invoiceService service.InvoiceService, logger Logger) *Handlers {
	return &Handlers{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// GenerateInvoiceResponse is returned for a stored invoice
type GenerateInvoiceResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	Filename      string  `json:"filename"`
	Filepath      string  `json:"filepath"`
	InvoiceNumber string  `json:"invoice_number"`
	Total         float64 `json:"total"`
}

// Home handles GET /
func (h *Handlers) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// GenerateInvoice handles POST /gen_invoice
func (h *Handlers) GenerateInvoice(c *gin.Context) {
	// A body that is empty, null or anything but an object leaves fields nil
	// or fails to bind.
	var fields invoice.Fields
	if err := c.ShouldBindJSON(&fields); err != nil || fields == nil {
		h.logger.Error("Invalid invoice payload", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invoice.MsgMissingPayload})
		return
	}

	result, err := h.invoiceService.Generate(c.Request.Context(), fields)
	if err != nil {
		var vErr *invoice.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateInvoiceResponse{
		Success:       true,
		Message:       "Invoice generated successfully",
		Filename:      result.Filename,
		Filepath:      result.Filepath,
		InvoiceNumber: result.InvoiceNumber,
		Total:         result.Total,
	})
}
