package entity

// Invoice is the fully defaulted invoice record handed to the layout builder.
// Numeric fields keep full float64 precision; they are only rounded when
// formatted for display.
type Invoice struct {
	InvoiceNumber   string     `json:"invoice_number"`
	InvoiceDate     string     `json:"invoice_date"`
	DueDate         string     `json:"due_date"`
	CompanyName     string     `json:"company_name"`
	CompanyAddress  string     `json:"company_address"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	BillingAddress  string     `json:"billing_address"`
	ShippingAddress string     `json:"shipping_address"`
	Items           []LineItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	TaxRate         float64    `json:"tax_rate"`
	TaxAmount       float64    `json:"tax_amount"`
	Total           float64    `json:"total"`
	Notes           string     `json:"notes"`
}

// LineItem is one billable entry of an invoice. Description is nil when the
// caller omitted it.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	Total       *float64 `json:"total,omitempty"`
}

// Amount returns the precomputed total when the caller supplied one,
// otherwise quantity times unit price.
func (i LineItem) Amount() float64 {
	if i.Total != nil {
		return *i.Total
	}
	return i.Quantity * i.UnitPrice
}

// DescriptionText returns the description, or "" when it is missing
func (i LineItem) DescriptionText() string {
	if i.Description == nil {
		return ""
	}
	return *i.Description
}

// StoredDocument describes a rendered invoice written to disk
type StoredDocument struct {
	Filename string
	Path     string
	Size     int
}
