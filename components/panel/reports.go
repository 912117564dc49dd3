package panel

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NoDataMarker is the sentinel rendered when a metric has no backing rows.
const NoDataMarker = "—"

// ProductRevenue is one row of the revenue-by-product report.
type ProductRevenue struct {
	Product string
	Amount  decimal.Decimal
}

// DailyRevenue is one row of the revenue-over-time report.
type DailyRevenue struct {
	Day    time.Time
	Amount decimal.Decimal
}

// MonthlyCohort counts customers that joined within one calendar month.
type MonthlyCohort struct {
	Month time.Time
	Count int
}

// TotalRevenue sums all sale amounts. Zero for an empty table.
func TotalRevenue(sales []Sale) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Amount)
	}
	return total
}

// TotalOrders counts sales rows.
func TotalOrders(sales []Sale) int { return len(sales) }

// LastSale returns the most recent sale timestamp, if any row carries one.
func LastSale(sales []Sale) (time.Time, bool) {
	var latest time.Time
	for _, sale := range sales {
		if sale.HasDate() && sale.Date.After(latest) {
			latest = sale.Date
		}
	}
	return latest, !latest.IsZero()
}

// RevenueByProduct groups sales by product and sums their amounts. Rows are
// sorted by product name so rendering is deterministic.
func RevenueByProduct(sales []Sale) []ProductRevenue {
	totals := make(map[string]decimal.Decimal)
	for _, sale := range sales {
		totals[sale.Product] = totals[sale.Product].Add(sale.Amount)
	}
	out := make([]ProductRevenue, 0, len(totals))
	for product, amount := range totals {
		out = append(out, ProductRevenue{Product: product, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// RevenueByDay groups sales by the calendar-date component of their
// timestamp. Rows without a usable date are skipped.
func RevenueByDay(sales []Sale) []DailyRevenue {
	totals := make(map[time.Time]decimal.Decimal)
	for _, sale := range sales {
		if !sale.HasDate() {
			continue
		}
		day := time.Date(sale.Date.Year(), sale.Date.Month(), sale.Date.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] = totals[day].Add(sale.Amount)
	}
	out := make([]DailyRevenue, 0, len(totals))
	for day, amount := range totals {
		out = append(out, DailyRevenue{Day: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// RecentSales returns the sales table ordered by date descending. Rows
// without a date sink to the end.
func RecentSales(sales []Sale) []Sale {
	out := append([]Sale(nil), sales...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasDate() != out[j].HasDate() {
			return out[i].HasDate()
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CustomerCount counts customer rows.
func CustomerCount(customers []Customer) int { return len(customers) }

// NewestCustomer formats the latest join date as YYYY-MM-DD, or the no-data
// marker for an empty table.
func NewestCustomer(customers []Customer) string {
	var latest time.Time
	for _, c := range customers {
		if c.JoinedAt.After(latest) {
			latest = c.JoinedAt
		}
	}
	if latest.IsZero() {
		return NoDataMarker
	}
	return latest.Format(time.DateOnly)
}

// CustomersPerMonth groups customers by the month they joined. Rows without
// a join date are skipped.
func CustomersPerMonth(customers []Customer) []MonthlyCohort {
	counts := make(map[time.Time]int)
	for _, c := range customers {
		if c.JoinedAt.IsZero() {
			continue
		}
		month := time.Date(c.JoinedAt.Year(), c.JoinedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
	}
	out := make([]MonthlyCohort, 0, len(counts))
	for month, count := range counts {
		out = append(out, MonthlyCohort{Month: month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// SearchCustomers filters by case-insensitive substring match against name or
// email. An empty query returns the table unchanged.
func SearchCustomers(customers []Customer, query string) []Customer {
	if query == "" {
		return customers
	}
	needle := strings.ToLower(query)
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

// LowStock returns products at or under the threshold.
func LowStock(products []Product, threshold int) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// TotalInventoryValue sums price × stock across all products.
func TotalInventoryValue(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.InventoryValue())
	}
	return total
}
