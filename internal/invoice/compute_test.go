package invoice

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

func fixedOptions() []Option {
	return []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "INV-test" }),
	}
}

func mustFields(t *testing.T, body string) Fields {
	t.Helper()
	var fields Fields
	require.NoError(t, json.Unmarshal([]byte(body), &fields))
	return fields
}

func TestCompute_EmptyObjectUsesDefaults(t *testing.T) {
	inv, err := Compute(Fields{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"))
	assert.Len(t, inv.InvoiceNumber, len("INV-")+36)
	assert.Empty(t, inv.Items)
	assert.NotNil(t, inv.Items)
	assert.Equal(t, 0.0, inv.Subtotal)
	assert.Equal(t, 0.0, inv.TaxAmount)
	assert.Equal(t, 0.0, inv.Total)
	assert.Equal(t, "Your Company", inv.CompanyName)
	assert.Equal(t, "customer@example.com", inv.CustomerEmail)
	assert.Equal(t, "", inv.Notes)
}

func TestCompute_DefaultDates(t *testing.T) {
	inv, err := Compute(Fields{}, fixedOptions()...)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-09", inv.InvoiceDate)
	assert.Equal(t, "2024-03-09", inv.DueDate)
	assert.Equal(t, "INV-test", inv.InvoiceNumber)
}

func TestCompute_NilFieldsIsValidationError(t *testing.T) {
	inv, err := Compute(nil)

	assert.Nil(t, inv)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, MsgMissingPayload, vErr.Message)
}

func TestCompute_RecomputesTotals(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "quantity times unit price",
			body:         `{"items":[{"description":"Widget","quantity":2,"unit_price":5.0}],"tax_rate":10}`,
			wantSubtotal: 10.0,
			wantTax:      1.0,
			wantTotal:    11.0,
		},
		{
			name:         "item total takes precedence",
			body:         `{"items":[{"description":"A","quantity":3,"unit_price":1,"total":7.5},{"description":"B","quantity":1,"unit_price":2.5}],"tax_rate":20}`,
			wantSubtotal: 10.0,
			wantTax:      2.0,
			wantTotal:    12.0,
		},
		{
			name:         "missing quantity counts as zero",
			body:         `{"items":[{"description":"Free","unit_price":99},{"description":"Paid","quantity":4,"unit_price":2.25}]}`,
			wantSubtotal: 9.0,
			wantTax:      0.0,
			wantTotal:    9.0,
		},
		{
			name:         "caller tax_amount and total are overwritten",
			body:         `{"items":[{"description":"X","quantity":1,"unit_price":100}],"tax_rate":5,"tax_amount":999,"total":999}`,
			wantSubtotal: 100.0,
			wantTax:      5.0,
			wantTotal:    105.0,
		},
		{
			name:         "fractional rate",
			body:         `{"items":[{"description":"X","quantity":3,"unit_price":19.99}],"tax_rate":8.25}`,
			wantSubtotal: 59.97,
			wantTax:      59.97 * 0.0825,
			wantTotal:    59.97 * 1.0825,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Compute(mustFields(t, tt.body), fixedOptions()...)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantSubtotal, inv.Subtotal, 1e-9)
			assert.InDelta(t, tt.wantTax, inv.TaxAmount, 1e-9)
			assert.InDelta(t, tt.wantTotal, inv.Total, 1e-9)
			assert.InDelta(t, inv.Subtotal*inv.TaxRate/100, inv.TaxAmount, 1e-9)
			assert.Equal(t, inv.Subtotal+inv.TaxAmount, inv.Total)
		})
	}
}

func TestCompute_SuppliedSubtotalSkipsRecomputation(t *testing.T) {
	t.Run("tax and total fall back to defaults", func(t *testing.T) {
		inv, err := Compute(mustFields(t, `{"subtotal":100.0,"items":[{"description":"X","quantity":1,"unit_price":50.0}]}`))
		require.NoError(t, err)

		assert.Equal(t, 100.0, inv.Subtotal)
		assert.Equal(t, 0.0, inv.TaxAmount)
		assert.Equal(t, 0.0, inv.Total)
	})

	t.Run("caller values kept exactly", func(t *testing.T) {
		inv, err := Compute(mustFields(t, `{"subtotal":12.345,"tax_rate":50,"tax_amount":1.5,"total":3.25,"items":[{"description":"X","quantity":1,"unit_price":50.0}]}`))
		require.NoError(t, err)

		assert.Equal(t, 12.345, inv.Subtotal)
		assert.Equal(t, 1.5, inv.TaxAmount)
		assert.Equal(t, 3.25, inv.Total)
	})

	t.Run("zero subtotal still counts as supplied", func(t *testing.T) {
		inv, err := Compute(mustFields(t, `{"subtotal":0,"items":[{"description":"X","quantity":2,"unit_price":2}]}`))
		require.NoError(t, err)

		assert.Equal(t, 0.0, inv.Subtotal)
		assert.Equal(t, 0.0, inv.Total)
	})
}

func TestCompute_EmptyItemsKeepsCallerTotals(t *testing.T) {
	inv, err := Compute(mustFields(t, `{"items":[],"tax_amount":4,"total":44}`))
	require.NoError(t, err)

	assert.Equal(t, 0.0, inv.Subtotal)
	assert.Equal(t, 4.0, inv.TaxAmount)
	assert.Equal(t, 44.0, inv.Total)
}

func TestCompute_ShallowOverride(t *testing.T) {
	inv, err := Compute(mustFields(t, `{
		"company_name": "Acme",
		"company_address": "1 Road\nTown",
		"invoice_number": "A-1",
		"due_date": "2024-04-01",
		"notes": "Thanks",
		"customer_name": null,
		"favourite_colour": "blue"
	}`), fixedOptions()...)
	require.NoError(t, err)

	assert.Equal(t, "Acme", inv.CompanyName)
	assert.Equal(t, "1 Road\nTown", inv.CompanyAddress)
	assert.Equal(t, "A-1", inv.InvoiceNumber)
	assert.Equal(t, "2024-03-09", inv.InvoiceDate)
	assert.Equal(t, "2024-04-01", inv.DueDate)
	assert.Equal(t, "Thanks", inv.Notes)
	assert.Equal(t, "Customer Name", inv.CustomerName)
}

func TestCompute_MalformedValuesAreRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string quantity", body: `{"items":[{"description":"X","quantity":"two","unit_price":1}]}`, want: "items"},
		{name: "item is not an object", body: `{"items":["widget"]}`, want: "items"},
		{name: "items is an object", body: `{"items":{"description":"X"}}`, want: "items"},
		{name: "numeric company name", body: `{"company_name":42}`, want: "company_name"},
		{name: "string tax rate", body: `{"tax_rate":"10%"}`, want: "tax_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Compute(mustFields(t, tt.body))

			assert.Nil(t, inv)
			var rErr *RenderError
			require.True(t, errors.As(err, &rErr))
			assert.Equal(t, StageCompute, rErr.Stage)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	body := `{"items":[{"description":"A","quantity":3,"unit_price":0.1},{"description":"B","quantity":7,"unit_price":0.2}],"tax_rate":7.5}`

	first, err := Compute(mustFields(t, body))
	require.NoError(t, err)
	second, err := Compute(mustFields(t, body))
	require.NoError(t, err)

	assert.Equal(t, first.Subtotal, second.Subtotal)
	assert.Equal(t, first.TaxAmount, second.TaxAmount)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Items, second.Items)
}

func TestUnknownFields(t *testing.T) {
	fields := mustFields(t, `{"notes":"x","zeta":1,"alpha":true,"items":[]}`)
	assert.Equal(t, []string{"alpha", "zeta"}, UnknownFields(fields))
	assert.Empty(t, UnknownFields(Fields{}))
}
