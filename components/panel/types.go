package panel

import (
	"context"
	"time"
)

// Table names served by the hosted backend.
const (
	TableProducts  = "products"
	TableSales     = "sales"
	TableCustomers = "customers"
)

// RequiredTables lists every table a dashboard render pass depends on.
func RequiredTables() []string {
	return []string{TableProducts, TableSales, TableCustomers}
}

// IdentityProvider wraps the hosted identity service's password sign-in call.
// Implementations translate transport failures into plain errors; the gateway
// surfaces their text verbatim.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Credentials, error)
}

// TableSource issues "select all columns, all rows" queries against the
// hosted table API.
type TableSource interface {
	SelectAll(ctx context.Context, table string) ([]map[string]any, error)
}

// Credentials carries the identity provider's successful sign-in response.
type Credentials struct {
	UserID      string
	Email       string
	AccessToken string
	TokenExpiry time.Time
}

// TableSet holds the decoded tables for one render pass. Every table is
// fetched before any aggregation runs, so providers never observe a
// half-loaded set.
type TableSet struct {
	Sales     []Sale
	Customers []Customer
	Products  []Product
}

// HealthSource reports the monitored backend services for the status panel.
// The default implementation serves static flags from the services manifest.
type HealthSource interface {
	Services(ctx context.Context) ([]ServiceStatus, error)
}

// PanelEvent describes refresh/session changes that transports might care about.
type PanelEvent struct {
	Reason  string    `json:"reason"`
	Section Section   `json:"section,omitempty"`
	At      time.Time `json:"at"`
}

// RefreshHook notifies transports (WebSocket/SSE) about panel events.
type RefreshHook interface {
	PanelUpdated(ctx context.Context, event PanelEvent) error
}
