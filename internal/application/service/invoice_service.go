package service

import (
	"context"
	"errors"

	"github.com/garyjia/invoice-generator/internal/application/port"
	"github.com/garyjia/invoice-generator/internal/invoice"
	"github.com/garyjia/invoice-generator/internal/layout"
)

// Generation outcomes reported to the InvoiceRecorder
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeRenderError     = "render_error"
	OutcomeStorageError    = "storage_error"
)

// Logger interface for logging operations
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// GenerateResult describes a generated invoice
type GenerateResult struct {
	Filename      string
	Filepath      string
	InvoiceNumber string
	Total         float64
	Size          int
}

// InvoiceService generates invoice documents from request payloads
type InvoiceService interface {
	Generate(ctx context.Context, fields invoice.Fields) (*GenerateResult, error)
}

// InvoiceServiceConfig tunes generation
type InvoiceServiceConfig struct {
	Layout  layout.Options
	Compute []invoice.Option
}

type invoiceServiceImpl struct {
	renderer port.DocumentRenderer
	store    port.InvoiceStore
	recorder port.InvoiceRecorder
	config   InvoiceServiceConfig
	logger   Logger
}

// NewInvoiceService creates a new InvoiceService. recorder may be nil.
func NewInvoiceService(
	renderer port.DocumentRenderer,
	store port.InvoiceStore,
	recorder port.InvoiceRecorder,
	config InvoiceServiceConfig,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		renderer: renderer,
		store:    store,
		recorder: recorder,
		config:   config,
		logger:   logger,
	}
}

// Generate computes totals, lays out and renders the invoice in memory, then
// writes it to the store. Nothing is written unless rendering succeeded.
func (s *invoiceServiceImpl) Generate(ctx context.Context, fields invoice.Fields) (*GenerateResult, error) {
	if unknown := invoice.UnknownFields(fields); len(unknown) > 0 {
		s.logger.Debug("Ignoring unrecognized invoice fields", "fields", unknown)
	}

	inv, err := invoice.Compute(fields, s.config.Compute...)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.logger.Info("Generating invoice",
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"total", inv.Total)

	blocks, err := layout.BuildBlocks(inv, s.config.Layout)
	if err != nil {
		rErr := &invoice.RenderError{Stage: invoice.StageLayout, Err: err}
		s.fail(rErr, "invoice_number", inv.InvoiceNumber)
		return nil, rErr
	}

	content, err := s.renderer.Render(blocks)
	if err != nil {
		rErr := &invoice.RenderError{Stage: invoice.StageRender, Err: err}
		s.fail(rErr, "invoice_number", inv.InvoiceNumber)
		return nil, rErr
	}

	doc, err := s.store.Save(ctx, content, inv.InvoiceNumber)
	if err != nil {
		s.fail(err, "invoice_number", inv.InvoiceNumber)
		return nil, err
	}

	s.record(OutcomeSuccess, doc.Size)
	s.logger.Info("Invoice generated",
		"invoice_number", inv.InvoiceNumber,
		"filename", doc.Filename,
		"size", doc.Size)

	return &GenerateResult{
		Filename:      doc.Filename,
		Filepath:      doc.Path,
		InvoiceNumber: inv.InvoiceNumber,
		Total:         inv.Total,
		Size:          doc.Size,
	}, nil
}

func (s *invoiceServiceImpl) fail(err error, keysAndValues ...interface{}) {
	outcome := Outcome(err)
	s.record(outcome, 0)
	s.logger.Error("Invoice generation failed",
		append([]interface{}{"outcome", outcome, "error", err}, keysAndValues...)...)
}

func (s *invoiceServiceImpl) record(outcome string, size int) {
	if s.recorder != nil {
		s.recorder.ObserveInvoice(outcome, size)
	}
}

// Outcome classifies an error returned by Generate
func Outcome(err error) string {
	var vErr *invoice.ValidationError
	var rErr *invoice.RenderError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &vErr):
		return OutcomeValidationError
	case errors.As(err, &rErr):
		return OutcomeRenderError
	default:
		return OutcomeStorageError
	}
}
