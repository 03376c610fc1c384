package invoice

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
)

// Recognized top-level keys of an invoice payload
const (
	KeyCompanyName     = "company_name"
	KeyCompanyAddress  = "company_address"
	KeyInvoiceNumber   = "invoice_number"
	KeyInvoiceDate     = "invoice_date"
	KeyDueDate         = "due_date"
	KeyCustomerName    = "customer_name"
	KeyCustomerEmail   = "customer_email"
	KeyBillingAddress  = "billing_address"
	KeyShippingAddress = "shipping_address"
	KeyItems           = "items"
	KeySubtotal        = "subtotal"
	KeyTaxRate         = "tax_rate"
	KeyTaxAmount       = "tax_amount"
	KeyTotal           = "total"
	KeyNotes           = "notes"
)

// MsgMissingPayload is the message of the ValidationError returned for a
// body that is absent or not a JSON object.
const MsgMissingPayload = "Invalid or missing JSON data"

// Fields is the raw top-level JSON object of a request
type Fields map[string]json.RawMessage

type computeOptions struct {
	now   func() time.Time
	newID func() string
}

// Option customizes Compute
type Option func(*computeOptions)

// WithClock sets the clock used for default dates
func WithClock(now func() time.Time) Option {
	return func(o *computeOptions) {
		o.now = now
	}
}

// WithIDGenerator sets the generator used when invoice_number is omitted
func WithIDGenerator(newID func() string) Option {
	return func(o *computeOptions) {
		o.newID = newID
	}
}

// Compute merges fields over the default record and fills in subtotal,
// tax_amount and total.
//
// Every recognized key replaces its default outright; JSON null keeps the
// default. Totals are recomputed from the items only when items is non-empty
// and the payload has no subtotal key at all, in which case all three totals
// are overwritten together.
func Compute(fields Fields, opts ...Option) (*entity.Invoice, error) {
	if fields == nil {
		return nil, &ValidationError{Message: MsgMissingPayload}
	}

	o := computeOptions{now: time.Now, newID: NewInvoiceNumber}
	for _, opt := range opts {
		opt(&o)
	}

	inv := Defaults(o.now(), o.newID())

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := assign(inv, key, fields[key]); err != nil {
			return nil, &RenderError{Stage: StageCompute, Err: err}
		}
	}
	if inv.Items == nil {
		inv.Items = []entity.LineItem{}
	}

	if _, supplied := fields[KeySubtotal]; !supplied && len(inv.Items) > 0 {
		recomputeTotals(inv)
	}

	return inv, nil
}

// UnknownFields lists the keys of fields that Compute ignores, sorted
func UnknownFields(fields Fields) []string {
	var unknown []string
	for key := range fields {
		if fieldTarget(&entity.Invoice{}, key) == nil {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func recomputeTotals(inv *entity.Invoice) {
	subtotal := 0.0
	for _, item := range inv.Items {
		subtotal += item.Amount()
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = subtotal * (inv.TaxRate / 100)
	inv.Total = subtotal + inv.TaxAmount
}

func assign(inv *entity.Invoice, key string, raw json.RawMessage) error {
	target := fieldTarget(inv, key)
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func fieldTarget(inv *entity.Invoice, key string) any {
	switch key {
	case KeyCompanyName:
		return &inv.CompanyName
	case KeyCompanyAddress:
		return &inv.CompanyAddress
	case KeyInvoiceNumber:
		return &inv.InvoiceNumber
	case KeyInvoiceDate:
		return &inv.InvoiceDate
	case KeyDueDate:
		return &inv.DueDate
	case KeyCustomerName:
		return &inv.CustomerName
	case KeyCustomerEmail:
		return &inv.CustomerEmail
	case KeyBillingAddress:
		return &inv.BillingAddress
	case KeyShippingAddress:
		return &inv.ShippingAddress
	case KeyItems:
		return &inv.Items
	case KeySubtotal:
		return &inv.Subtotal
	case KeyTaxRate:
		return &inv.TaxRate
	case KeyTaxAmount:
		return &inv.TaxAmount
	case KeyTotal:
		return &inv.Total
	case KeyNotes:
		return &inv.Notes
	}
	return nil
}
