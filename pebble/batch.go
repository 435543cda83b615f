// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

const pebbleByteOverhead = 8

var _ database.Batch = (*batch)(nil)

type batch struct {
	db    *Database
	batch *pebble.Batch
	size  int

	// pebble batches cannot be committed twice.
	written bool
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		db:    db,
		batch: db.db.NewBatch(),
	}
}

func (b *batch) Put(key, value []byte) error {
	b.size += len(key) + len(value) + pebbleByteOverhead
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key) + pebbleByteOverhead
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int { return b.size }

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	if b.written {
		// pebble consumes a batch on commit, so a rewrite needs a replay
		// into a fresh batch.
		replayed := b.db.db.NewBatch()
		if err := replayed.Apply(b.batch, nil); err != nil {
			return err
		}
		b.batch = replayed
	}
	b.written = true
	return updateError(b.batch.Commit(b.db.writeOptions))
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.written = false
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	reader := b.batch.Reader()
	for {
		kind, k, v, ok := reader.Next()
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unhandled operation, keyKind=%v", kind)
		}
	}
}

func (b *batch) Inner() database.Batch { return b }
