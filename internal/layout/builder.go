package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
)

// DocumentTitle is printed at the top of every invoice
const DocumentTitle = "PolyStack Invoice"

// ErrNonFiniteAmount is returned when an amount overflows or is NaN
var ErrNonFiniteAmount = errors.New("amount is not a finite number")

// ErrMissingDescription is returned for a line item without a description
var ErrMissingDescription = errors.New("missing description")

const (
	bodySize   = 10.0
	headerSize = 12.0
	totalSize  = 14.0
	sectionGap = 24.0
)

// Options controls how caller text is embedded
type Options struct {
	// TrustNotesMarkup passes notes to the renderer as inline markup instead
	// of literal text.
	TrustNotesMarkup bool
}

// BuildBlocks lays inv out as title, party headers, items table, totals and
// optional notes, in that order.
func BuildBlocks(inv *entity.Invoice, opts Options) ([]Block, error) {
	items, err := itemsTable(inv.Items)
	if err != nil {
		return nil, err
	}
	totals, err := totalsTable(inv)
	if err != nil {
		return nil, err
	}

	blocks := []Block{
		Heading{Text: DocumentTitle, Size: 18, Align: AlignCenter, SpaceAfter: 30},
		Spacer{Height: 12},
		companyHeader(inv),
		Spacer{Height: sectionGap},
		customerHeader(inv),
		Spacer{Height: sectionGap},
		items,
		Spacer{Height: sectionGap},
		totals,
	}

	if inv.Notes != "" {
		blocks = append(blocks,
			Spacer{Height: sectionGap},
			Paragraph{Spans: []Span{Bold("Notes:")}, Size: headerSize, SpaceAfter: 12},
			notesParagraph(inv.Notes, opts),
		)
	}

	return blocks, nil
}

func companyHeader(inv *entity.Invoice) Columns {
	company := append([]Span{Bold(inv.CompanyName), Break()}, Lines(SpanPlain, inv.CompanyAddress)...)

	details := []Span{
		Bold("Invoice #: "), Plain(inv.InvoiceNumber), Break(),
		Bold("Date: "), Plain(inv.InvoiceDate), Break(),
		Bold("Due Date: "), Plain(inv.DueDate),
	}

	return Columns{
		Widths: []float64{3 * Inch, 3 * Inch},
		HAlign: AlignCenter,
		Cells: []Paragraph{
			{Spans: company, Size: headerSize, SpaceAfter: 12},
			{Spans: details, Size: headerSize, Align: AlignRight, SpaceAfter: 12},
		},
	}
}

func customerHeader(inv *entity.Invoice) Columns {
	billTo := []Span{
		Bold("Bill To:"), Break(),
		Plain(inv.CustomerName), Break(),
		Plain(inv.CustomerEmail), Break(),
	}
	billTo = append(billTo, Lines(SpanPlain, inv.BillingAddress)...)

	shipTo := append([]Span{Bold("Ship To:"), Break()}, Lines(SpanPlain, inv.ShippingAddress)...)

	return Columns{
		Widths: []float64{3 * Inch, 3 * Inch},
		HAlign: AlignCenter,
		Cells: []Paragraph{
			{Spans: billTo, Size: headerSize, SpaceAfter: 12},
			{Spans: shipTo, Size: headerSize, SpaceAfter: 12},
		},
	}
}

func itemsTable(items []entity.LineItem) (Table, error) {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		if item.Description == nil {
			return Table{}, fmt.Errorf("item %d: %w", i+1, ErrMissingDescription)
		}
		amount := item.Amount()
		for _, v := range []float64{item.Quantity, item.UnitPrice, amount} {
			if !isFinite(v) {
				return Table{}, fmt.Errorf("item %d: %w", i+1, ErrNonFiniteAmount)
			}
		}
		rows = append(rows, []string{
			*item.Description,
			FormatNumber(item.Quantity),
			FormatMoney(item.UnitPrice),
			FormatMoney(amount),
		})
	}

	return Table{
		Widths:      []float64{3 * Inch, 1 * Inch, 1 * Inch, 1 * Inch},
		HAlign:      AlignCenter,
		ColumnAlign: []Align{AlignLeft, AlignCenter, AlignCenter, AlignCenter},
		Header:      []string{"Description", "Quantity", "Unit Price", "Total"},
		HeaderStyle: RowStyle{
			Bold:      true,
			FontSize:  headerSize,
			Fill:      ref(Grey),
			TextColor: ref(WhiteSmoke),
			PadBottom: 12,
		},
		Rows:      rows,
		RowStyle:  RowStyle{FontSize: bodySize},
		BodyTints: []Color{Beige, Ivory},
		Grid:      1,
	}, nil
}

func totalsTable(inv *entity.Invoice) (Table, error) {
	for _, v := range []float64{inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total} {
		if !isFinite(v) {
			return Table{}, fmt.Errorf("totals: %w", ErrNonFiniteAmount)
		}
	}

	return Table{
		Widths:      []float64{4 * Inch, 1 * Inch},
		HAlign:      AlignRight,
		ColumnAlign: []Align{AlignRight, AlignRight},
		Rows: [][]string{
			{"Subtotal:", FormatMoney(inv.Subtotal)},
			{fmt.Sprintf("Tax (%s%%):", FormatNumber(inv.TaxRate)), FormatMoney(inv.TaxAmount)},
			{"Total:", FormatMoney(inv.Total)},
		},
		RowStyle: RowStyle{FontSize: bodySize},
		LastRowStyle: &RowStyle{
			Bold:      true,
			FontSize:  totalSize,
			Fill:      ref(LightGrey),
			RuleBelow: 2,
		},
	}, nil
}

func notesParagraph(notes string, opts Options) Paragraph {
	if opts.TrustNotesMarkup {
		return Paragraph{Spans: []Span{TrustedMarkup(notes)}, Size: bodySize}
	}
	return Paragraph{Spans: Lines(SpanPlain, notes), Size: bodySize}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func ref(c Color) *Color {
	return &c
}
