package panel

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	errMissingIdentity = errors.New("panel: identity provider not configured")
	errMissingTables   = errors.New("panel: table source not configured")
	// ErrNotLoggedIn guards operations that need an authenticated session.
	ErrNotLoggedIn = errors.New("panel: not logged in")
)

// Options configures the panel Service. Every collaborator is provided via
// interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	Identity        IdentityProvider
	Tables          TableSource
	Sessions        *SessionStore
	TableCache      *TableCache
	Charts          *ChartRenderer
	PreferenceStore PreferenceStore
	PrefsValidator  PreferencesValidator
	Health          HealthSource
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	CacheTTL        time.Duration
}

// Service orchestrates the dashboard: auth, fetching, aggregation, and the
// section view models the web layer renders.
type Service struct {
	opts     Options
	gateway  *AuthGateway
	fetcher  *Fetcher
	sections map[Section]sectionBuilder
}

type sectionBuilder func(ctx context.Context, s *Service, tables TableSet, req ViewRequest) SectionView

// NewService builds a Service instance with safe defaults. It fails when the
// section map does not cover the full closed section set.
func NewService(opts Options) (*Service, error) {
	if opts.Identity == nil {
		return nil, errMissingIdentity
	}
	if opts.Tables == nil {
		return nil, errMissingTables
	}
	if opts.Sessions == nil {
		opts.Sessions = NewSessionStore()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultTableTTL
	}
	if opts.TableCache == nil {
		opts.TableCache = NewTableCache(opts.CacheTTL)
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.PrefsValidator == nil {
		opts.PrefsValidator = NewJSONSchemaValidator()
	}
	if opts.Health == nil {
		opts.Health = StaticHealthSource{Items: DefaultServices()}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	svc := &Service{
		opts:    opts,
		gateway: NewAuthGateway(opts.Identity, opts.Telemetry),
		fetcher: NewFetcher(opts.Tables, opts.TableCache, opts.Telemetry),
	}
	svc.sections = map[Section]sectionBuilder{
		SectionSales:     buildSalesSection,
		SectionCustomers: buildCustomersSection,
		SectionProducts:  buildProductsSection,
		SectionStatus:    buildStatusSection,
	}
	if err := ensureSectionCoverage(svc.sections); err != nil {
		return nil, err
	}
	return svc, nil
}

// Sessions exposes the session store to the web layer.
func (s *Service) Sessions() *SessionStore { return s.opts.Sessions }

// SignIn authenticates the login form against the identity provider and, on
// success, binds the credentials to the session. A failed attempt leaves the
// session untouched so the login view is re-shown.
func (s *Service) SignIn(ctx context.Context, sessionID, email, password string) error {
	creds, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if !s.opts.Sessions.Bind(sessionID, creds) {
		return fmt.Errorf("panel: unknown session %s", sessionID)
	}
	return nil
}

// SignOut clears the session entirely.
func (s *Service) SignOut(ctx context.Context, sessionID string) {
	s.opts.Sessions.Reset(sessionID)
	s.opts.Telemetry.Record(ctx, "panel.session.reset", map[string]any{
		"session_id": sessionID,
	})
}

// Refresh drops every cached table and chart so the next render refetches,
// then notifies transports. Auth state and selected section are untouched.
func (s *Service) Refresh(ctx context.Context, section Section) error {
	s.fetcher.Invalidate()
	s.opts.Charts.PurgeCache()
	event := PanelEvent{Reason: "refresh", Section: section, At: time.Now().UTC()}
	if err := s.opts.RefreshHook.PanelUpdated(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "panel.refresh", map[string]any{
		"section": string(section),
	})
	return nil
}

// ViewRequest carries the per-request inputs of a section render.
type ViewRequest struct {
	Section   Section
	Query     string
	Threshold int
}

// RenderSection fetches every required table, then builds the view model for
// the requested section. Fetch failures surface as notices on the model, not
// as errors.
func (s *Service) RenderSection(ctx context.Context, sess *Session, req ViewRequest) (SectionView, error) {
	if !sess.LoggedIn() {
		return SectionView{}, ErrNotLoggedIn
	}
	if !req.Section.Valid() {
		req.Section = DefaultSection
	}
	notices := NewNoticeFeed()
	tables := s.fetcher.LoadAll(ctx, notices)
	view := s.sections[req.Section](ctx, s, tables, req)
	view.Section = req.Section
	view.Title = req.Section.Title()
	view.Notices = notices.Notices()
	s.opts.Telemetry.Record(ctx, "panel.section.render", map[string]any{
		"section": string(req.Section),
		"viewer":  sess.UserID,
	})
	return view, nil
}

// Snapshot returns the raw aggregates for the JSON endpoint.
func (s *Service) Snapshot(ctx context.Context, sess *Session) (Snapshot, error) {
	if !sess.LoggedIn() {
		return Snapshot{}, ErrNotLoggedIn
	}
	notices := NewNoticeFeed()
	tables := s.fetcher.LoadAll(ctx, notices)
	return Snapshot{
		TotalRevenue:     TotalRevenue(tables.Sales),
		TotalOrders:      TotalOrders(tables.Sales),
		RevenueByProduct: RevenueByProduct(tables.Sales),
		RevenueByDay:     RevenueByDay(tables.Sales),
		TotalCustomers:   CustomerCount(tables.Customers),
		NewestCustomer:   NewestCustomer(tables.Customers),
		MonthlyCohorts:   CustomersPerMonth(tables.Customers),
		InventoryValue:   TotalInventoryValue(tables.Products),
		Notices:          notices.Notices(),
	}, nil
}

// Preferences loads the user's saved preferences.
func (s *Service) Preferences(ctx context.Context, sess *Session) (Preferences, error) {
	if !sess.LoggedIn() {
		return defaultPreferences(), ErrNotLoggedIn
	}
	return s.opts.PreferenceStore.Preferences(ctx, sess.UserID)
}

// SavePreferences validates and persists a raw preferences payload.
func (s *Service) SavePreferences(ctx context.Context, sess *Session, payload map[string]any) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := s.opts.PrefsValidator.Validate(payload); err != nil {
		return err
	}
	prefs, err := s.opts.PreferenceStore.Preferences(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if v, ok := payload["default_section"].(string); ok {
		prefs.DefaultSection = ParseSection(v)
	}
	if v, ok := payload["stock_threshold"]; ok {
		prefs.StockThreshold = intValue(v)
	}
	return s.opts.PreferenceStore.SavePreferences(ctx, sess.UserID, prefs)
}

func intValue(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return 0
}

type noopRefreshHook struct{}

func (noopRefreshHook) PanelUpdated(context.Context, PanelEvent) error { return nil }
