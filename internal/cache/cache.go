// Package cache holds the last-known-good values for stock fields that
// intermittently arrive invalid from the spreadsheet upstream.
//
// The source recalculates formulas while being read, so a field that was
// "9,00" a second ago may arrive as "#N/A" or "Carregando..." on this cycle.
// The cache papers over those windows: valid observations are stored (and
// persisted), invalid ones are answered with the previous valid value.
//
// One cache instance is created at process start, loaded from the durable
// store, and shared for the life of the process.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brquant/optscreener/internal/logger"
	"github.com/brquant/optscreener/internal/marketdata"
)

// VariationField is the stock field with time-windowed semantics: the daily
// percentage change legitimately reads zero after the close, so it gets its
// own rule instead of plain validity gating.
const VariationField = "variation"

// saoPaulo is the fixed UTC-3 offset used for the market-hours window.
// Brazil abolished DST in 2019, so a fixed offset is deliberate here; it
// also keeps the window independent of the host tzdata.
var saoPaulo = time.FixedZone("BRT", -3*60*60)

// Store is the durable side of the cache. Implementations must tolerate
// concurrent use from a single goroutine at a time (the cache serializes).
type Store interface {
	// Load returns all persisted entries, keyed "TICKER|field".
	Load() (map[string]string, error)
	// Put persists a single entry synchronously.
	Put(key, value string) error
	Close() error
}

// ValueCache is the validity-gated value cache. The zero value is not
// usable; construct with New.
type ValueCache struct {
	mu      sync.Mutex
	entries map[string]string
	store   Store // nil means memory-only

	// now is the clock used for the variation window; replaced in tests.
	now func() time.Time
}

// New builds a cache backed by the given store. A nil store yields a
// memory-only cache. Load failures are logged and the cache starts empty:
// losing the history is a degradation, never a startup error.
func New(store Store) *ValueCache {
	c := &ValueCache{
		entries: make(map[string]string),
		store:   store,
		now:     time.Now,
	}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			logger.Errorf("event=cache_load_failed err=%v", err)
		} else {
			c.entries = loaded
			logger.Infof("event=cache_loaded entries=%d", len(loaded))
		}
	}
	return c
}

// GetOrUpdate records observed when it is valid and returns the effective
// value for (ticker, field): the observation itself when valid, the last
// valid observation when not, or the invalid observation unchanged when
// there is no history. Callers must tolerate the invalid passthrough.
//
// The variation field follows the market-hours rule instead; see
// getOrUpdateVariation.
func (c *ValueCache) GetOrUpdate(ticker, field, observed string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if field == VariationField {
		return c.getOrUpdateVariation(ticker, observed)
	}

	key := entryKey(ticker, field)
	if IsValid(observed) {
		c.put(key, observed)
		return observed
	}

	if prev, ok := c.entries[key]; ok {
		logger.Debugf("event=cache_fallback ticker=%s field=%s observed=%q cached=%q", ticker, field, observed, prev)
		return prev
	}
	return observed
}

// getOrUpdateVariation applies the time-aware rule for the daily variation.
//
// After-hours (local hour >= 18 or < 10 at UTC-3) a zero or invalid
// observation means the feed has reset for the night, so the cached final
// close is returned; a non-zero valid observation is the final close itself
// and overrides the cache. During market hours a zero is a real zero move
// and is passed through untouched.
func (c *ValueCache) getOrUpdateVariation(ticker, observed string) string {
	key := entryKey(ticker, VariationField)
	valid := IsValid(observed)
	zero := valid && marketdata.ParseLocaleFloat(observed) == 0

	hour := c.now().In(saoPaulo).Hour()
	afterHours := hour >= 18 || hour < 10

	if afterHours {
		if !valid || zero {
			if prev, ok := c.entries[key]; ok && marketdata.ParseLocaleFloat(prev) != 0 {
				return prev
			}
			return "0"
		}
		c.put(key, observed)
		return observed
	}

	if valid && !zero {
		c.put(key, observed)
	}
	return observed
}

// put stores under key and persists. Persist errors are logged and
// swallowed; the cache degrades to memory-only on storage trouble.
func (c *ValueCache) put(key, value string) {
	c.entries[key] = value
	if c.store == nil {
		return
	}
	if err := c.store.Put(key, value); err != nil {
		logger.Errorf("event=cache_persist_failed key=%s err=%v", key, err)
	}
}

// Len reports the number of cached entries.
func (c *ValueCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Snapshot returns a copy of the current entries, for diagnostics.
func (c *ValueCache) Snapshot() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// SetClock replaces the cache clock. Test hook for the variation window.
func (c *ValueCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// IsValid reports whether a spreadsheet cell value is usable. Empty cells,
// the loading placeholders, and every "#"-prefixed marker (#N/A, #REF!,
// #VALUE!, #DIV/0!, ...) are invalid.
func IsValid(v string) bool {
	s := strings.TrimSpace(v)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "#") {
		return false
	}
	up := strings.ToUpper(s)
	if strings.HasPrefix(up, "LOADING") || strings.HasPrefix(up, "CARREGANDO") {
		return false
	}
	return true
}

func entryKey(ticker, field string) string {
	return fmt.Sprintf("%s|%s", strings.ToUpper(strings.TrimSpace(ticker)), field)
}
