package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/brquant/optscreener/internal/logger"
)

// Entry is the persisted form of one cached value.
type Entry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// BadgerStore persists cache entries in a badger database via badgerhold.
type BadgerStore struct {
	store *badgerhold.Store
}

// OpenBadgerStore opens (creating if needed) the badger database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open value store at %s: %w", path, err)
	}
	return &BadgerStore{store: store}, nil
}

// Load reads every persisted entry into a map.
func (b *BadgerStore) Load() (map[string]string, error) {
	var entries []Entry
	if err := b.store.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to load cache entries: %w", err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Put upserts a single entry. Writes are synchronous: when Put returns, the
// value survives a process restart.
func (b *BadgerStore) Put(key, value string) error {
	if err := b.store.Upsert(key, Entry{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to persist cache entry %s: %w", key, err)
	}
	return nil
}

// Close compacts the value log and releases the underlying badger database.
func (b *BadgerStore) Close() error {
	b.runGC()
	return b.store.Close()
}

// runGC rewrites value log files until badger reports nothing left to
// reclaim. The cache workload is tiny but long-lived overwrite-heavy, which
// is exactly what leaves stale versions behind.
func (b *BadgerStore) runGC() {
	db := b.store.Badger()
	for {
		err := db.RunValueLogGC(0.5)
		if err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logger.Debugf("event=badger_gc_stopped err=%v", err)
			}
			return
		}
	}
}
