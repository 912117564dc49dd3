package panel

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// ChartRenderer produces server-side chart HTML for the dashboard sections.
// Rendered markup is memoized in a RenderCache keyed by chart name and a
// caller-supplied data fingerprint.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: NewChartCache(5 * time.Minute),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RevenueByProductChart renders the per-product revenue bar chart.
func (r *ChartRenderer) RevenueByProductChart(rows []ProductRevenue) (string, error) {
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions("Revenue by Product", "")...)
		labels := make([]string, len(rows))
		data := make([]opts.BarData, len(rows))
		for i, row := range rows {
			labels[i] = row.Product
			data[i] = opts.BarData{Name: row.Product, Value: row.Amount.InexactFloat64()}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Revenue", data)
		return renderChart(bar)
	}
	return r.cached("revenue_by_product", fingerprintProducts(rows), render)
}

// RevenueOverTimeChart renders the daily revenue line chart.
func (r *ChartRenderer) RevenueOverTimeChart(rows []DailyRevenue) (string, error) {
	render := func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions("Revenue Over Time", "")...)
		labels := make([]string, len(rows))
		data := make([]opts.LineData, len(rows))
		for i, row := range rows {
			labels[i] = row.Day.Format(time.DateOnly)
			data[i] = opts.LineData{Name: labels[i], Value: row.Amount.InexactFloat64()}
		}
		line.SetXAxis(labels)
		line.AddSeries("Revenue", data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	}
	return r.cached("revenue_over_time", fingerprintDaily(rows), render)
}

// CustomersPerMonthChart renders the monthly signup bar chart.
func (r *ChartRenderer) CustomersPerMonthChart(rows []MonthlyCohort) (string, error) {
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions("New Customers Per Month", "")...)
		labels := make([]string, len(rows))
		data := make([]opts.BarData, len(rows))
		for i, row := range rows {
			labels[i] = row.Month.Format("2006-01")
			data[i] = opts.BarData{Name: labels[i], Value: row.Count}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Signups", data)
		return renderChart(bar)
	}
	return r.cached("customers_per_month", fingerprintCohorts(rows), render)
}

// SparklineChart renders a service's decorative mini line chart.
func (r *ChartRenderer) SparklineChart(service string) (string, error) {
	render := func() (string, error) {
		values := SparklineSeries(service, SparklineLength)
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				Theme:      r.theme,
				Width:      "100%",
				Height:     "80px",
				AssetsHost: r.assetsHost,
			}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(false)}),
		)
		labels := make([]string, len(values))
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			labels[i] = fmt.Sprintf("%d", i+1)
			data[i] = opts.LineData{Value: v}
		}
		line.SetXAxis(labels)
		line.AddSeries(service, data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	}
	return r.cached("sparkline", service, render)
}

// PurgeCache drops memoized markup so the next render uses fresh data.
func (r *ChartRenderer) PurgeCache() {
	if purger, ok := r.cache.(interface{ Purge() }); ok {
		purger.Purge()
	}
}

func (r *ChartRenderer) cached(chart, fingerprint string, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(chart+":"+fingerprint, render)
}

func (r *ChartRenderer) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fingerprintProducts(rows []ProductRevenue) string {
	var buf bytes.Buffer
	for _, row := range rows {
		fmt.Fprintf(&buf, "%s=%s;", row.Product, row.Amount.String())
	}
	return buf.String()
}

func fingerprintDaily(rows []DailyRevenue) string {
	var buf bytes.Buffer
	for _, row := range rows {
		fmt.Fprintf(&buf, "%s=%s;", row.Day.Format(time.DateOnly), row.Amount.String())
	}
	return buf.String()
}

func fingerprintCohorts(rows []MonthlyCohort) string {
	var buf bytes.Buffer
	for _, row := range rows {
		fmt.Fprintf(&buf, "%s=%d;", row.Month.Format("2006-01"), row.Count)
	}
	return buf.String()
}
