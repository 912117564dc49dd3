package panel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSalesCoercesBadDates(t *testing.T) {
	rows := []map[string]any{
		{"product": "Pen", "amount": 10.0, "date": "2024-01-01"},
		{"product": "Notebook", "amount": 5.0, "date": "not-a-date"},
		{"product": "Stapler", "amount": 2.0},
	}

	sales := DecodeSales(rows)
	require.Len(t, sales, 3)
	assert.True(t, sales[0].HasDate())
	assert.False(t, sales[1].HasDate())
	assert.False(t, sales[2].HasDate())
	assert.True(t, sales[0].Amount.Equal(decimal.NewFromInt(10)))
}

func TestDecodeSalesAcceptsRFC3339Timestamps(t *testing.T) {
	rows := []map[string]any{
		{"product": "Pen", "amount": "12.50", "date": "2024-06-01T10:30:00Z"},
	}

	sales := DecodeSales(rows)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Amount.Equal(decimal.NewFromFloat(12.50)))
	assert.Equal(t, 2024, sales[0].Date.Year())
	assert.Equal(t, time.June, sales[0].Date.Month())
}

func TestDecodeCustomersRenamesJoinedOn(t *testing.T) {
	rows := []map[string]any{
		{"name": "Ann", "email": "a@x.com", "joined_on": "2024-02-15"},
	}

	customers := DecodeCustomers(rows)
	require.Len(t, customers, 1)
	assert.Equal(t, "2024-02-15", customers[0].JoinedAt.Format(time.DateOnly))
}

func TestDecodeCustomersFallsBackToJoinedAt(t *testing.T) {
	rows := []map[string]any{
		{"name": "Bob", "email": "b@y.com", "joined_at": "2023-11-01"},
		{"name": "Cal", "email": "c@z.com"},
	}

	customers := DecodeCustomers(rows)
	require.Len(t, customers, 2)
	assert.Equal(t, "2023-11-01", customers[0].JoinedAt.Format(time.DateOnly))
	assert.True(t, customers[1].JoinedAt.IsZero())
}

func TestDecodeProductsAndInventoryValue(t *testing.T) {
	rows := []map[string]any{
		{"name": "Widget", "price": 2.0, "stock": 3.0},
		{"name": "Gadget", "price": "9.99", "stock": "7"},
	}

	products := DecodeProducts(rows)
	require.Len(t, products, 2)
	assert.True(t, products[0].InventoryValue().Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 7, products[1].Stock)
	assert.True(t, products[1].Price.Equal(decimal.NewFromFloat(9.99)))
}
