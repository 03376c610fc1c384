package port

import (
	"context"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
	"github.com/garyjia/invoice-generator/internal/layout"
)

// DocumentRenderer turns layout blocks into a paginated binary document
type DocumentRenderer interface {
	Render(blocks []layout.Block) ([]byte, error)
}

// InvoiceStore persists a rendered invoice under a name derived from its
// invoice number
type InvoiceStore interface {
	Save(ctx context.Context, content []byte, invoiceNumber string) (*entity.StoredDocument, error)
}

// InvoiceRecorder records the outcome of each generation attempt
type InvoiceRecorder interface {
	ObserveInvoice(outcome string, size int)
}
