package panel

import (
	"context"
	"fmt"
	"sync"
)

// DefaultStockThreshold matches the low-stock input's initial value.
const DefaultStockThreshold = 5

// Preferences are the per-user knobs the dashboard remembers between
// requests: which section opens by default and the sticky low-stock
// threshold.
type Preferences struct {
	DefaultSection Section `json:"default_section"`
	StockThreshold int     `json:"stock_threshold"`
}

// PreferenceStore loads and saves per-user preferences.
type PreferenceStore interface {
	Preferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
}

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]Preferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]Preferences),
	}
}

// Preferences returns stored preferences or defaults.
func (s *InMemoryPreferenceStore) Preferences(_ context.Context, userID string) (Preferences, error) {
	if userID == "" {
		return defaultPreferences(), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.data[userID]; ok {
		normalizePreferences(&prefs)
		return prefs, nil
	}
	return defaultPreferences(), nil
}

// SavePreferences persists preferences for a user.
func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, userID string, prefs Preferences) error {
	if userID == "" {
		return fmt.Errorf("panel: preference store requires a user id")
	}
	normalizePreferences(&prefs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = prefs
	return nil
}

func defaultPreferences() Preferences {
	return Preferences{
		DefaultSection: DefaultSection,
		StockThreshold: DefaultStockThreshold,
	}
}

func normalizePreferences(prefs *Preferences) {
	if !prefs.DefaultSection.Valid() {
		prefs.DefaultSection = DefaultSection
	}
	if prefs.StockThreshold < 0 {
		prefs.StockThreshold = 0
	}
}
