package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/ettle/strcase"
	"github.com/shopspring/decimal"
)

// Metric is one tile at the top of a section.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TableView is a rendered table: ordered columns plus stringified rows.
type TableView struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartView carries server-rendered chart markup.
type ChartView struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Callout is an inline highlight, such as the low-stock warning.
type Callout struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ServiceCard is one entry of the status section. Slug is a stable DOM/JSON
// identifier derived from the display name.
type ServiceCard struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Healthy   bool   `json:"healthy"`
	Sparkline string `json:"sparkline,omitempty"`
}

// SectionView is the full view model of one dashboard section. No state
// produced for one section leaks into another; each render pass builds its
// view from scratch.
type SectionView struct {
	Section   Section       `json:"section"`
	Title     string        `json:"title"`
	Metrics   []Metric      `json:"metrics,omitempty"`
	Tables    []TableView   `json:"tables,omitempty"`
	Charts    []ChartView   `json:"charts,omitempty"`
	Callout   *Callout      `json:"callout,omitempty"`
	Services  []ServiceCard `json:"services,omitempty"`
	Query     string        `json:"query,omitempty"`
	Threshold int           `json:"threshold,omitempty"`
	Notices   []Notice      `json:"notices,omitempty"`
}

// Snapshot is the raw-aggregate payload served by the JSON endpoint.
type Snapshot struct {
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	TotalOrders      int              `json:"total_orders"`
	RevenueByProduct []ProductRevenue `json:"revenue_by_product"`
	RevenueByDay     []DailyRevenue   `json:"revenue_by_day"`
	TotalCustomers   int              `json:"total_customers"`
	NewestCustomer   string           `json:"newest_customer"`
	MonthlyCohorts   []MonthlyCohort  `json:"monthly_cohorts"`
	InventoryValue   decimal.Decimal  `json:"inventory_value"`
	Notices          []Notice         `json:"notices,omitempty"`
}

func buildSalesSection(ctx context.Context, s *Service, tables TableSet, _ ViewRequest) SectionView {
	sales := tables.Sales
	lastSale := NoDataMarker
	if ts, ok := LastSale(sales); ok {
		lastSale = ts.Format(time.DateOnly)
	}
	view := SectionView{
		Metrics: []Metric{
			{Label: "Total Revenue", Value: formatMoney(TotalRevenue(sales))},
			{Label: "Total Orders", Value: fmt.Sprintf("%d", TotalOrders(sales))},
			{Label: "Last Sale", Value: lastSale},
		},
	}

	byProduct := RevenueByProduct(sales)
	if len(byProduct) > 0 {
		rows := make([][]string, len(byProduct))
		for i, row := range byProduct {
			rows[i] = []string{row.Product, formatMoney(row.Amount)}
		}
		view.Tables = append(view.Tables, TableView{
			Title:   "Revenue by Product",
			Columns: []string{"Product", "Revenue"},
			Rows:    rows,
		})
		if html, err := s.opts.Charts.RevenueByProductChart(byProduct); err == nil {
			view.Charts = append(view.Charts, ChartView{Title: "Revenue by Product", HTML: html})
		} else {
			s.opts.Telemetry.Record(ctx, "panel.chart.failed", map[string]any{
				"chart": "revenue_by_product",
				"error": err.Error(),
			})
		}
	}

	daily := RevenueByDay(sales)
	if len(daily) > 0 {
		if html, err := s.opts.Charts.RevenueOverTimeChart(daily); err == nil {
			view.Charts = append(view.Charts, ChartView{Title: "Revenue Over Time", HTML: html})
		} else {
			s.opts.Telemetry.Record(ctx, "panel.chart.failed", map[string]any{
				"chart": "revenue_over_time",
				"error": err.Error(),
			})
		}
	}

	recent := RecentSales(sales)
	rows := make([][]string, len(recent))
	for i, sale := range recent {
		date := NoDataMarker
		if sale.HasDate() {
			date = sale.Date.Format(time.DateOnly)
		}
		rows[i] = []string{sale.Product, formatMoney(sale.Amount), date}
	}
	view.Tables = append(view.Tables, TableView{
		Title:   "Recent Sales",
		Columns: []string{"Product", "Amount", "Date"},
		Rows:    rows,
	})
	return view
}

func buildCustomersSection(_ context.Context, s *Service, tables TableSet, req ViewRequest) SectionView {
	customers := tables.Customers
	view := SectionView{
		Query: req.Query,
		Metrics: []Metric{
			{Label: "Total Customers", Value: fmt.Sprintf("%d", CustomerCount(customers))},
			{Label: "Newest Customer", Value: NewestCustomer(customers)},
		},
	}

	filtered := SearchCustomers(customers, req.Query)
	rows := make([][]string, len(filtered))
	for i, c := range filtered {
		joined := NoDataMarker
		if !c.JoinedAt.IsZero() {
			joined = c.JoinedAt.Format(time.DateOnly)
		}
		rows[i] = []string{c.Name, c.Email, joined}
	}
	view.Tables = append(view.Tables, TableView{
		Title:   "Customers",
		Columns: []string{"Name", "Email", "Joined"},
		Rows:    rows,
	})

	cohorts := CustomersPerMonth(customers)
	if len(cohorts) > 0 {
		if html, err := s.opts.Charts.CustomersPerMonthChart(cohorts); err == nil {
			view.Charts = append(view.Charts, ChartView{Title: "New Customers Per Month", HTML: html})
		}
	}
	return view
}

func buildProductsSection(_ context.Context, s *Service, tables TableSet, req ViewRequest) SectionView {
	products := tables.Products
	threshold := req.Threshold
	if threshold < 0 {
		threshold = 0
	}
	view := SectionView{
		Threshold: threshold,
		Metrics: []Metric{
			{Label: "Total Inventory Value", Value: formatMoney(TotalInventoryValue(products))},
		},
	}

	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			p.Name,
			formatMoney(p.Price),
			fmt.Sprintf("%d", p.Stock),
			formatMoney(p.InventoryValue()),
		}
	}
	view.Tables = append(view.Tables, TableView{
		Title:   "Products",
		Columns: []string{"Name", "Price", "Stock", "Inventory Value"},
		Rows:    rows,
	})

	low := LowStock(products, threshold)
	if len(low) > 0 {
		view.Callout = &Callout{
			Level:   "warning",
			Message: fmt.Sprintf("%d products low in stock", len(low)),
		}
		lowRows := make([][]string, len(low))
		for i, p := range low {
			lowRows[i] = []string{p.Name, fmt.Sprintf("%d", p.Stock)}
		}
		view.Tables = append(view.Tables, TableView{
			Title:   "Low Stock Alerts",
			Columns: []string{"Name", "Stock"},
			Rows:    lowRows,
		})
	} else if len(products) > 0 {
		view.Callout = &Callout{
			Level:   "success",
			Message: "All stock levels look good",
		}
	}
	return view
}

func buildStatusSection(ctx context.Context, s *Service, _ TableSet, _ ViewRequest) SectionView {
	view := SectionView{}
	services, err := s.opts.Health.Services(ctx)
	if err != nil {
		view.Callout = &Callout{
			Level:   "warning",
			Message: fmt.Sprintf("could not load service status: %v", err),
		}
		return view
	}
	view.Services = make([]ServiceCard, 0, len(services))
	for _, svc := range services {
		card := ServiceCard{
			Name:    svc.Name,
			Slug:    strcase.ToSnake(svc.Name),
			Healthy: svc.Healthy,
		}
		if html, err := s.opts.Charts.SparklineChart(svc.Name); err == nil {
			card.Sparkline = html
		}
		view.Services = append(view.Services, card)
	}
	return view
}

func formatMoney(amount decimal.Decimal) string {
	return "₹ " + amount.StringFixed(2)
}
