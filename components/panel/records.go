package panel

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a single sales record. A zero Date marks a missing or unparseable
// timestamp; rows are never rejected over it.
type Sale struct {
	Product string
	Amount  decimal.Decimal
	Date    time.Time
}

// HasDate reports whether the sale carries a usable timestamp.
func (s Sale) HasDate() bool { return !s.Date.IsZero() }

// Customer is a single customer record. The backend column is `joined_on`;
// it is renamed to JoinedAt on ingestion.
type Customer struct {
	Name     string
	Email    string
	JoinedAt time.Time
}

// Product is a single inventory record.
type Product struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// InventoryValue is price × stock, computed on read and never persisted.
func (p Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// DecodeSales converts raw table rows into sales records.
func DecodeSales(rows []map[string]any) []Sale {
	out := make([]Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, Sale{
			Product: stringField(row, "product"),
			Amount:  decimalField(row, "amount"),
			Date:    dateField(row, "date"),
		})
	}
	return out
}

// DecodeCustomers converts raw table rows into customer records, renaming
// `joined_on` to JoinedAt when present.
func DecodeCustomers(rows []map[string]any) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		joined := dateField(row, "joined_on")
		if joined.IsZero() {
			joined = dateField(row, "joined_at")
		}
		out = append(out, Customer{
			Name:     stringField(row, "name"),
			Email:    stringField(row, "email"),
			JoinedAt: joined,
		})
	}
	return out
}

// DecodeProducts converts raw table rows into product records.
func DecodeProducts(rows []map[string]any) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, Product{
			Name:  stringField(row, "name"),
			Price: decimalField(row, "price"),
			Stock: intField(row, "stock"),
		})
	}
	return out
}

func stringField(row map[string]any, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

func decimalField(row map[string]any, key string) decimal.Decimal {
	switch v := row[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func intField(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// dateField parses a date-like column. Unparseable or missing values coerce
// to the zero time, the absent-date marker.
func dateField(row map[string]any, key string) time.Time {
	raw, ok := row[key].(string)
	if !ok {
		return time.Time{}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
