package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTableSource struct {
	rows  map[string][]map[string]any
	errs  map[string]error
	calls map[string]int
}

func newStubTableSource() *stubTableSource {
	return &stubTableSource{
		rows:  map[string][]map[string]any{},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (s *stubTableSource) SelectAll(_ context.Context, table string) ([]map[string]any, error) {
	s.calls[table]++
	if err := s.errs[table]; err != nil {
		return nil, err
	}
	return s.rows[table], nil
}

func TestFetchTableFailureYieldsEmptyTableAndWarning(t *testing.T) {
	source := newStubTableSource()
	source.errs[TableSales] = errors.New("relation does not exist")
	fetcher := NewFetcher(source, NewTableCache(time.Minute), nil)
	notices := NewNoticeFeed()

	rows := fetcher.FetchTable(context.Background(), TableSales, notices)

	assert.Empty(t, rows)
	require.Equal(t, 1, notices.Len())
	assert.Contains(t, notices.Notices()[0].Message, TableSales)
}

func TestLoadAllFetchesEveryTableBeforeReturning(t *testing.T) {
	source := newStubTableSource()
	source.rows[TableSales] = []map[string]any{{"product": "Pen", "amount": 10.0, "date": "2024-01-01"}}
	source.rows[TableCustomers] = []map[string]any{{"name": "Ann", "email": "a@x.com", "joined_on": "2024-02-15"}}
	source.rows[TableProducts] = []map[string]any{{"name": "Widget", "price": 2.0, "stock": 3.0}}
	fetcher := NewFetcher(source, NewTableCache(time.Minute), nil)

	tables := fetcher.LoadAll(context.Background(), NewNoticeFeed())

	for _, table := range RequiredTables() {
		assert.Equal(t, 1, source.calls[table], "table %s", table)
	}
	require.Len(t, tables.Sales, 1)
	require.Len(t, tables.Customers, 1)
	require.Len(t, tables.Products, 1)
}

func TestLoadAllDegradesPartiallyOnFailure(t *testing.T) {
	source := newStubTableSource()
	source.rows[TableProducts] = []map[string]any{{"name": "Widget", "price": 2.0, "stock": 3.0}}
	source.errs[TableSales] = errors.New("timeout")
	source.errs[TableCustomers] = errors.New("timeout")
	fetcher := NewFetcher(source, NewTableCache(time.Minute), nil)
	notices := NewNoticeFeed()

	tables := fetcher.LoadAll(context.Background(), notices)

	assert.Empty(t, tables.Sales)
	assert.Empty(t, tables.Customers)
	require.Len(t, tables.Products, 1)
	assert.Equal(t, 2, notices.Len())
}

func TestFetcherUsesCacheWithinWindow(t *testing.T) {
	source := newStubTableSource()
	source.rows[TableSales] = []map[string]any{{"product": "Pen"}}
	fetcher := NewFetcher(source, NewTableCache(time.Minute), nil)

	fetcher.FetchTable(context.Background(), TableSales, NewNoticeFeed())
	fetcher.FetchTable(context.Background(), TableSales, NewNoticeFeed())

	assert.Equal(t, 1, source.calls[TableSales])
}

func TestFetcherInvalidateForcesRefetch(t *testing.T) {
	source := newStubTableSource()
	source.rows[TableSales] = []map[string]any{{"product": "Pen"}}
	fetcher := NewFetcher(source, NewTableCache(time.Minute), nil)

	fetcher.FetchTable(context.Background(), TableSales, NewNoticeFeed())
	fetcher.Invalidate()
	fetcher.FetchTable(context.Background(), TableSales, NewNoticeFeed())

	assert.Equal(t, 2, source.calls[TableSales])
}
