package panel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceStoreDefaults(t *testing.T) {
	store := NewInMemoryPreferenceStore()

	prefs, err := store.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSection, prefs.DefaultSection)
	assert.Equal(t, DefaultStockThreshold, prefs.StockThreshold)
}

func TestPreferenceStoreSaveAndLoad(t *testing.T) {
	store := NewInMemoryPreferenceStore()

	err := store.SavePreferences(context.Background(), "user-1", Preferences{
		DefaultSection: SectionProducts,
		StockThreshold: 12,
	})
	require.NoError(t, err)

	prefs, err := store.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, SectionProducts, prefs.DefaultSection)
	assert.Equal(t, 12, prefs.StockThreshold)
}

func TestPreferenceStoreRequiresUserID(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	err := store.SavePreferences(context.Background(), "", Preferences{})
	require.Error(t, err)
}

func TestPreferenceStoreNormalizesInvalidValues(t *testing.T) {
	store := NewInMemoryPreferenceStore()

	err := store.SavePreferences(context.Background(), "user-1", Preferences{
		DefaultSection: Section("reports"),
		StockThreshold: -4,
	})
	require.NoError(t, err)

	prefs, err := store.Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSection, prefs.DefaultSection)
	assert.Equal(t, 0, prefs.StockThreshold)
}
