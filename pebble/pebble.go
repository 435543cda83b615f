// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOptions *pebble.WriteOptions

	lock    sync.RWMutex
	closed  bool
	closing chan struct{}
}

type Config struct {
	CacheSize                   int    `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	MaxConcurrentCompactions    int    `json:"maxConcurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   512 * units.MiB,
		BytesPerSync:                units.MiB,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                4_096,
		MaxConcurrentCompactions:    1,
		Sync:                        false,
	}
}

func New(file string, cfg Config) (database.Database, *prometheus.Registry, error) {
	registry, m, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	db := &Database{
		metrics: m,
		closing: make(chan struct{}),
		writeOptions: &pebble.WriteOptions{
			Sync: cfg.Sync,
		},
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.MaxConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: db.onCompactionBegin,
			CompactionEnd:   db.onCompactionEnd,
			WriteStallBegin: db.onWriteStallBegin,
			WriteStallEnd:   db.onWriteStallEnd,
		},
	}
	db.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	go db.collectMetrics()
	return db, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	// [data] is only valid until [closer] is closed.
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Set(key, value, db.writeOptions))
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Delete(key, db.writeOptions))
}

func (db *Database) Compact(start []byte, end []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Compact(start, end, true))
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	return updateError(db.db.Close())
}

// updateError converts pebble-specific errors into their database
// equivalents so callers only ever match on the database package's
// sentinels.
func updateError(err error) error {
	switch {
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}
