package panel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServicesListsSix(t *testing.T) {
	services := DefaultServices()
	require.Len(t, services, 6)

	seen := map[string]struct{}{}
	for _, svc := range services {
		assert.NotEmpty(t, svc.Name)
		_, dup := seen[svc.Name]
		assert.False(t, dup, "duplicate service %s", svc.Name)
		seen[svc.Name] = struct{}{}
	}
}

func TestStaticHealthSourceReturnsCopy(t *testing.T) {
	source := StaticHealthSource{Items: DefaultServices()}

	first, err := source.Services(context.Background())
	require.NoError(t, err)
	first[0].Healthy = !first[0].Healthy

	second, err := source.Services(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first[0].Healthy, second[0].Healthy)
}

func TestSparklineSeriesIsDeterministic(t *testing.T) {
	a := SparklineSeries("API Gateway", SparklineLength)
	b := SparklineSeries("API Gateway", SparklineLength)
	assert.Equal(t, a, b)
}

func TestSparklineSeriesVariesByServiceName(t *testing.T) {
	a := SparklineSeries("API Gateway", SparklineLength)
	b := SparklineSeries("Auth Service", SparklineLength)
	assert.NotEqual(t, a, b)
}

func TestSparklineSeriesLength(t *testing.T) {
	assert.Len(t, SparklineSeries("Cache Layer", 7), 7)
	assert.Len(t, SparklineSeries("Cache Layer", 0), SparklineLength)
	assert.Len(t, SparklineSeries("Cache Layer", -3), SparklineLength)
}

func TestSparklineSeriesValuesBounded(t *testing.T) {
	for _, v := range SparklineSeries("Payments Bridge", 50) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 100.0)
	}
}
