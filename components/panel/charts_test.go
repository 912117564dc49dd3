package panel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueByProductChartRendersMarkup(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))

	html, err := renderer.RevenueByProductChart([]ProductRevenue{
		{Product: "Pen", Amount: decimal.NewFromInt(15)},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Revenue by Product")
	assert.Contains(t, html, "Pen")
}

func TestRevenueOverTimeChartRendersMarkup(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))

	html, err := renderer.RevenueOverTimeChart([]DailyRevenue{
		{Day: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Revenue Over Time")
	assert.Contains(t, html, "2024-01-01")
}

func TestSparklineChartIsMemoizedPerService(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(NewChartCache(time.Minute)))

	first, err := renderer.SparklineChart("API Gateway")
	require.NoError(t, err)
	second, err := renderer.SparklineChart("API Gateway")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChartRendererPurgeCacheIsSafeWithoutCache(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))
	renderer.PurgeCache()
}

func TestCustomersPerMonthChartRendersMarkup(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))

	html, err := renderer.CustomersPerMonthChart([]MonthlyCohort{
		{Month: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), Count: 3},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "New Customers Per Month")
	assert.Contains(t, html, "2024-02")
}
