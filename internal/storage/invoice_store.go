package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
	"github.com/garyjia/invoice-generator/pkg/utils"
)

// InvoiceStore persists rendered invoices as invoice_<number>.pdf in a
// single directory. A second invoice with the same sanitized number
// overwrites the first.
type InvoiceStore struct {
	files  FileStorage
	logger *zap.Logger
}

// NewInvoiceStore creates an InvoiceStore writing below dir
func NewInvoiceStore(dir string, logger *zap.Logger) (*InvoiceStore, error) {
	files, err := NewLocalFileStorage(dir, logger)
	if err != nil {
		return nil, err
	}
	return &InvoiceStore{
		files:  files,
		logger: logger,
	}, nil
}

// FilenameFor returns the file name used for invoiceNumber
func FilenameFor(invoiceNumber string) string {
	return fmt.Sprintf("invoice_%s.pdf", utils.SanitizeIdentifier(invoiceNumber))
}

// Save writes content under the file name derived from invoiceNumber
func (s *InvoiceStore) Save(ctx context.Context, content []byte, invoiceNumber string) (*entity.StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, ErrEmptyContent
	}

	filename := FilenameFor(invoiceNumber)
	path, err := s.files.WriteFile(filename, content, FileTypePDF)
	if err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceNumber, err)
	}

	s.logger.Info("Invoice saved",
		zap.String("invoice_number", invoiceNumber),
		zap.String("path", path),
		zap.Int("size", len(content)))

	return &entity.StoredDocument{
		Filename: filename,
		Path:     path,
		Size:     len(content),
	}, nil
}
