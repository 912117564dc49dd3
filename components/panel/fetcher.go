package panel

import (
	"context"
)

// Fetcher loads table rows through the TTL cache. A failed fetch degrades to
// an empty table plus a warning on the feed; render always proceeds.
type Fetcher struct {
	source    TableSource
	cache     *TableCache
	telemetry Telemetry
}

// NewFetcher builds a fetcher over the given source and cache.
func NewFetcher(source TableSource, cache *TableCache, telemetry Telemetry) *Fetcher {
	return &Fetcher{
		source:    source,
		cache:     cache,
		telemetry: normalizeTelemetry(telemetry),
	}
}

// FetchTable returns the rows of one table, served from cache when fresh.
// On failure it records a warning and returns an empty row set, never an
// error: a broken backend shows an empty dashboard, not a broken one.
func (f *Fetcher) FetchTable(ctx context.Context, name string, notices *NoticeFeed) []map[string]any {
	rows, err := f.cache.GetOrFetch(name, func() ([]map[string]any, error) {
		return f.source.SelectAll(ctx, name)
	})
	if err != nil {
		f.telemetry.Record(ctx, "panel.fetch.failed", map[string]any{
			"table": name,
			"error": err.Error(),
		})
		notices.Warnf("fetch", "could not load %s: %v", name, err)
		return []map[string]any{}
	}
	return rows
}

// LoadAll fetches and decodes every required table before any aggregation
// runs, so a render pass always works from a complete set.
func (f *Fetcher) LoadAll(ctx context.Context, notices *NoticeFeed) TableSet {
	raw := make(map[string][]map[string]any, len(RequiredTables()))
	for _, table := range RequiredTables() {
		raw[table] = f.FetchTable(ctx, table, notices)
	}
	return TableSet{
		Sales:     DecodeSales(raw[TableSales]),
		Customers: DecodeCustomers(raw[TableCustomers]),
		Products:  DecodeProducts(raw[TableProducts]),
	}
}

// Invalidate drops every cached table so the next render refetches.
func (f *Fetcher) Invalidate() {
	f.cache.InvalidateAll()
}
