package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// marketHours returns a clock pinned inside the trading window (14:00 at
// UTC-3 is 17:00 UTC).
func marketHours() func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC) }
}

// afterHours returns a clock pinned past the close (20:00 at UTC-3 is
// 23:00 UTC).
func afterHours() func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC) }
}

func TestGetOrUpdateValidObservationStoredAndReturned(t *testing.T) {
	c := New(nil)
	got := c.GetOrUpdate("vale3", "min_val", "58,00")
	require.Equal(t, "58,00", got)
	require.Equal(t, 1, c.Len())
	require.Equal(t, "58,00", c.Snapshot()["VALE3|min_val"])
}

func TestGetOrUpdateInvalidFallsBackToHistory(t *testing.T) {
	c := New(nil)
	c.GetOrUpdate("VALE3", "min_val", "58,00")

	for _, bad := range []string{"#N/A", "#REF!", "#DIV/0!", "", "   ", "Loading...", "Carregando..."} {
		require.Equal(t, "58,00", c.GetOrUpdate("VALE3", "min_val", bad), "observed %q", bad)
	}
	// history untouched by the invalid observations
	require.Equal(t, "58,00", c.Snapshot()["VALE3|min_val"])
}

func TestGetOrUpdateInvalidWithoutHistoryPassesThrough(t *testing.T) {
	c := New(nil)
	require.Equal(t, "#N/A", c.GetOrUpdate("VALE3", "falta", "#N/A"))
	require.Equal(t, 0, c.Len())
}

func TestGetOrUpdateKeysAreTickerScoped(t *testing.T) {
	c := New(nil)
	c.GetOrUpdate("VALE3", "min_val", "58,00")
	c.GetOrUpdate("PETR4", "min_val", "30,00")
	require.Equal(t, "58,00", c.GetOrUpdate("VALE3", "min_val", "#N/A"))
	require.Equal(t, "30,00", c.GetOrUpdate("PETR4", "min_val", "#N/A"))
}

func TestVariationMarketHoursZeroPassesThrough(t *testing.T) {
	c := New(nil)
	c.SetClock(marketHours())

	// a real zero move during the session is not cached and not substituted
	require.Equal(t, "0,00%", c.GetOrUpdate("VALE3", VariationField, "0,00%"))
	require.Equal(t, 0, c.Len())

	// non-zero values are cached normally
	require.Equal(t, "1,50%", c.GetOrUpdate("VALE3", VariationField, "1,50%"))
	require.Equal(t, 1, c.Len())
}

func TestVariationAfterHoursZeroReturnsCachedClose(t *testing.T) {
	c := New(nil)
	c.SetClock(marketHours())
	c.GetOrUpdate("VALE3", VariationField, "1,50%")

	c.SetClock(afterHours())
	require.Equal(t, "1,50%", c.GetOrUpdate("VALE3", VariationField, "0,00%"))
	require.Equal(t, "1,50%", c.GetOrUpdate("VALE3", VariationField, "#N/A"))
}

func TestVariationAfterHoursNoHistoryYieldsZero(t *testing.T) {
	c := New(nil)
	c.SetClock(afterHours())
	require.Equal(t, "0", c.GetOrUpdate("VALE3", VariationField, "#N/A"))
	require.Equal(t, "0", c.GetOrUpdate("VALE3", VariationField, "0,00%"))
}

func TestVariationAfterHoursNonZeroOverridesCache(t *testing.T) {
	c := New(nil)
	c.SetClock(marketHours())
	c.GetOrUpdate("VALE3", VariationField, "1,50%")

	// the feed's own final close wins over the cached intraday value
	c.SetClock(afterHours())
	require.Equal(t, "-0,80%", c.GetOrUpdate("VALE3", VariationField, "-0,80%"))
	require.Equal(t, "-0,80%", c.Snapshot()["VALE3|variation"])
}

func TestVariationPreOpenCountsAsAfterHours(t *testing.T) {
	c := New(nil)
	// 08:00 at UTC-3 is 11:00 UTC, before the 10:00 open
	c.SetClock(func() time.Time { return time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC) })
	require.Equal(t, "0", c.GetOrUpdate("VALE3", VariationField, "0,00%"))
}

func TestIsValid(t *testing.T) {
	valid := []string{"58,00", "R$ 1.234,56", "-0,08", "0", "abc"}
	for _, v := range valid {
		require.True(t, IsValid(v), "expected %q valid", v)
	}
	invalid := []string{"", "  ", "#N/A", "#REF!", "#VALUE!", "#DIV/0!", "Loading...", "loading", "Carregando...", "CARREGANDO"}
	for _, v := range invalid {
		require.False(t, IsValid(v), "expected %q invalid", v)
	}
}

type failingStore struct{}

func (failingStore) Load() (map[string]string, error) { return nil, errFail }
func (failingStore) Put(key, value string) error      { return errFail }
func (failingStore) Close() error                     { return nil }

var errFail = &storeErr{}

type storeErr struct{}

func (*storeErr) Error() string { return "store down" }

func TestStoreFailuresDegradeToMemoryOnly(t *testing.T) {
	c := New(failingStore{})
	// load failed: cache starts empty but works
	require.Equal(t, "58,00", c.GetOrUpdate("VALE3", "min_val", "58,00"))
	// persist failed: the value is still served from memory
	require.Equal(t, "58,00", c.GetOrUpdate("VALE3", "min_val", "#N/A"))
}
