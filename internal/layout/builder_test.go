package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-generator/internal/domain/entity"
)

func sampleInvoice() *entity.Invoice {
	itemTotal := 12.5
	return &entity.Invoice{
		InvoiceNumber:   "INV-7",
		InvoiceDate:     "2024-01-02",
		DueDate:         "2024-02-01",
		CompanyName:     "Acme Ltd",
		CompanyAddress:  "1 Main St\nSpringfield",
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		BillingAddress:  "2 Side Rd\r\nShelbyville",
		ShippingAddress: "3 Dock Ln",
		Items: []entity.LineItem{
			{Description: strPtr("Widget"), Quantity: 2, UnitPrice: 5},
			{Description: strPtr("Gadget"), Quantity: 1.5, UnitPrice: 3.333, Total: &itemTotal},
		},
		Subtotal:  22.5,
		TaxRate:   8.25,
		TaxAmount: 1.8562,
		Total:     24.3562,
	}
}

func TestBuildBlocks_Order(t *testing.T) {
	blocks, err := BuildBlocks(sampleInvoice(), Options{})
	require.NoError(t, err)
	require.Len(t, blocks, 9)

	heading, ok := blocks[0].(Heading)
	require.True(t, ok)
	assert.Equal(t, DocumentTitle, heading.Text)
	assert.Equal(t, AlignCenter, heading.Align)

	assert.IsType(t, Spacer{}, blocks[1])
	assert.IsType(t, Columns{}, blocks[2])
	assert.IsType(t, Spacer{}, blocks[3])
	assert.IsType(t, Columns{}, blocks[4])
	assert.IsType(t, Spacer{}, blocks[5])
	assert.IsType(t, Table{}, blocks[6])
	assert.IsType(t, Spacer{}, blocks[7])
	assert.IsType(t, Table{}, blocks[8])
}

func TestBuildBlocks_CompanyHeader(t *testing.T) {
	blocks, err := BuildBlocks(sampleInvoice(), Options{})
	require.NoError(t, err)

	header := blocks[2].(Columns)
	require.Len(t, header.Cells, 2)
	assert.Equal(t, []float64{3 * Inch, 3 * Inch}, header.Widths)

	assert.Equal(t, []Span{
		Bold("Acme Ltd"), Break(),
		Plain("1 Main St"), Break(), Plain("Springfield"),
	}, header.Cells[0].Spans)

	details := header.Cells[1]
	assert.Equal(t, AlignRight, details.Align)
	assert.Contains(t, details.Spans, Plain("INV-7"))
	assert.Contains(t, details.Spans, Plain("2024-01-02"))
	assert.Contains(t, details.Spans, Plain("2024-02-01"))
	assert.Contains(t, details.Spans, Bold("Due Date: "))
}

func TestBuildBlocks_CustomerHeader(t *testing.T) {
	blocks, err := BuildBlocks(sampleInvoice(), Options{})
	require.NoError(t, err)

	customer := blocks[4].(Columns)
	assert.Equal(t, []Span{
		Bold("Bill To:"), Break(),
		Plain("Jane Doe"), Break(),
		Plain("jane@example.com"), Break(),
		Plain("2 Side Rd"), Break(), Plain("Shelbyville"),
	}, customer.Cells[0].Spans)
	assert.Equal(t, []Span{Bold("Ship To:"), Break(), Plain("3 Dock Ln")}, customer.Cells[1].Spans)

	for _, cell := range customer.Cells {
		for _, span := range cell.Spans {
			assert.NotContains(t, span.Text, "\n")
			assert.NotEqual(t, SpanMarkup, span.Kind)
		}
	}
}

func TestBuildBlocks_ItemsTable(t *testing.T) {
	blocks, err := BuildBlocks(sampleInvoice(), Options{})
	require.NoError(t, err)

	items := blocks[6].(Table)
	assert.Equal(t, []string{"Description", "Quantity", "Unit Price", "Total"}, items.Header)
	assert.Equal(t, [][]string{
		{"Widget", "2", "$5.00", "$10.00"},
		{"Gadget", "1.5", "$3.33", "$12.50"},
	}, items.Rows)
	assert.Equal(t, []Align{AlignLeft, AlignCenter, AlignCenter, AlignCenter}, items.ColumnAlign)
	assert.Equal(t, 6*Inch, items.Width())
	assert.Equal(t, 1.0, items.Grid)
	assert.Len(t, items.BodyTints, 2)
	require.NotNil(t, items.HeaderStyle.Fill)
	assert.Equal(t, Grey, *items.HeaderStyle.Fill)
	assert.Equal(t, WhiteSmoke, *items.HeaderStyle.TextColor)
}

func TestBuildBlocks_EmptyItemsYieldsHeaderOnlyTable(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = nil

	blocks, err := BuildBlocks(inv, Options{})
	require.NoError(t, err)

	items := blocks[6].(Table)
	assert.Len(t, items.Header, 4)
	assert.Empty(t, items.Rows)
}

func TestBuildBlocks_TotalsTable(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		wantTax string
	}{
		{name: "fractional rate", rate: 8.25, wantTax: "Tax (8.25%):"},
		{name: "missing rate renders as zero", rate: 0, wantTax: "Tax (0%):"},
		{name: "whole rate", rate: 10, wantTax: "Tax (10%):"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			inv.TaxRate = tt.rate

			blocks, err := BuildBlocks(inv, Options{})
			require.NoError(t, err)

			totals := blocks[8].(Table)
			assert.Equal(t, [][]string{
				{"Subtotal:", "$22.50"},
				{tt.wantTax, "$1.86"},
				{"Total:", "$24.36"},
			}, totals.Rows)
			assert.Equal(t, AlignRight, totals.HAlign)
			require.NotNil(t, totals.LastRowStyle)
			assert.True(t, totals.LastRowStyle.Bold)
			assert.Equal(t, 2.0, totals.LastRowStyle.RuleBelow)
		})
	}
}

func TestBuildBlocks_Notes(t *testing.T) {
	t.Run("notes rendered as literal text by default", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Notes = "<b>Pay</b> within\n30 days"

		blocks, err := BuildBlocks(inv, Options{})
		require.NoError(t, err)
		require.Len(t, blocks, 12)

		assert.Equal(t, []Span{Bold("Notes:")}, blocks[10].(Paragraph).Spans)
		assert.Equal(t, []Span{
			Plain("<b>Pay</b> within"), Break(), Plain("30 days"),
		}, blocks[11].(Paragraph).Spans)
	})

	t.Run("trusted notes passed as markup", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Notes = "<b>Pay</b> now"

		blocks, err := BuildBlocks(inv, Options{TrustNotesMarkup: true})
		require.NoError(t, err)

		assert.Equal(t, []Span{TrustedMarkup("<b>Pay</b> now")}, blocks[11].(Paragraph).Spans)
	})

	t.Run("no notes blocks when empty", func(t *testing.T) {
		blocks, err := BuildBlocks(sampleInvoice(), Options{})
		require.NoError(t, err)
		assert.Len(t, blocks, 9)
	})
}

func strPtr(s string) *string {
	return &s
}

func TestBuildBlocks_MissingDescription(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = append(inv.Items, entity.LineItem{Quantity: 2, UnitPrice: 5})

	_, err := BuildBlocks(inv, Options{})
	assert.True(t, errors.Is(err, ErrMissingDescription))
	assert.Contains(t, err.Error(), "item 3")
}

func TestBuildBlocks_EmptyDescription(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = []entity.LineItem{{Description: strPtr(""), Quantity: 1, UnitPrice: 1}}

	blocks, err := BuildBlocks(inv, Options{})
	require.NoError(t, err)
	assert.Len(t, blocks, 9)
}

func TestBuildBlocks_NonFiniteAmounts(t *testing.T) {
	t.Run("item overflow", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Items = []entity.LineItem{{Description: strPtr("Huge"), Quantity: 1e308, UnitPrice: 1e10}}

		_, err := BuildBlocks(inv, Options{})
		assert.True(t, errors.Is(err, ErrNonFiniteAmount))
		assert.Contains(t, err.Error(), "item 1")
	})

	t.Run("total overflow", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Total = math.Inf(1)

		_, err := BuildBlocks(inv, Options{})
		assert.True(t, errors.Is(err, ErrNonFiniteAmount))
	})
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$1234.50", FormatMoney(1234.5))
	assert.Equal(t, "$0.13", FormatMoney(0.125000001))
	assert.Equal(t, "2", FormatNumber(2))
	assert.Equal(t, "0.5", FormatNumber(0.5))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []Span{Plain("one")}, Lines(SpanPlain, "one"))
	assert.Equal(t, []Span{Plain("a"), Break(), Plain(""), Break(), Plain("b")}, Lines(SpanPlain, "a\n\nb"))
}
