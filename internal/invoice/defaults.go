package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
)

// DateLayout is the format of invoice_date and due_date defaults
const DateLayout = "2006-01-02"

// InvoiceNumberPrefix prefixes generated invoice numbers
const InvoiceNumberPrefix = "INV-"

// NewInvoiceNumber returns INV-<random uuid>
func NewInvoiceNumber() string {
	return InvoiceNumberPrefix + uuid.NewString()
}

// Defaults returns the record used when the caller omits every field
func Defaults(now time.Time, invoiceNumber string) *entity.Invoice {
	today := now.Format(DateLayout)
	return &entity.Invoice{
		InvoiceNumber:   invoiceNumber,
		InvoiceDate:     today,
		DueDate:         today,
		CompanyName:     "Your Company",
		CompanyAddress:  "Your Address",
		CustomerName:    "Customer Name",
		CustomerEmail:   "customer@example.com",
		BillingAddress:  "Billing Address",
		ShippingAddress: "Shipping Address",
		Items:           []entity.LineItem{},
	}
}
