package panel

import (
	"context"
	"hash/fnv"
)

// SparklineLength is the number of points in a service's decorative chart.
const SparklineLength = 12

// ServiceStatus is one monitored backend service as shown on the status
// section. Healthy flags come from the manifest, not from a live probe.
type ServiceStatus struct {
	Name    string `json:"name" yaml:"name"`
	Healthy bool   `json:"healthy" yaml:"healthy"`
}

// StaticHealthSource serves a fixed service list. It is the only HealthSource
// shipped today; a probing implementation can slot in behind the same
// interface without touching the renderer.
type StaticHealthSource struct {
	Items []ServiceStatus
}

// Services returns a copy of the static list.
func (s StaticHealthSource) Services(_ context.Context) ([]ServiceStatus, error) {
	return append([]ServiceStatus(nil), s.Items...), nil
}

// DefaultServices is the baseline service list used when no manifest is
// configured.
func DefaultServices() []ServiceStatus {
	return []ServiceStatus{
		{Name: "API Gateway", Healthy: true},
		{Name: "Auth Service", Healthy: true},
		{Name: "Orders Database", Healthy: true},
		{Name: "Cache Layer", Healthy: true},
		{Name: "Email Delivery", Healthy: false},
		{Name: "Payments Bridge", Healthy: true},
	}
}

// SparklineSeries produces the decorative per-service mini-chart data. The
// generator is seeded from a stable hash of the service name, so a service
// always draws the same pattern and tests can pin exact values.
func SparklineSeries(serviceName string, length int) []float64 {
	if length <= 0 {
		length = SparklineLength
	}
	h := fnv.New64a()
	h.Write([]byte(serviceName))
	state := h.Sum64()
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}
	out := make([]float64, length)
	for i := range out {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		out[i] = float64(state%1000) / 10
	}
	return out
}
