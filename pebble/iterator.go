// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iter)(nil)

type iter struct {
	db   *Database
	iter *pebble.Iterator

	initialized bool
	closed      bool
	err         error

	key   []byte
	value []byte
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &iter{
			db:     db,
			closed: true,
			err:    database.ErrClosed,
		}
	}
	it, err := db.db.NewIter(keyRange(start, prefix))
	if err != nil {
		return &iter{
			db:     db,
			closed: true,
			err:    updateError(err),
		}
	}
	return &iter{
		db:   db,
		iter: it,
	}
}

func (it *iter) Next() bool {
	if it.closed {
		return false
	}

	var hasNext bool
	if !it.initialized {
		hasNext = it.iter.First()
		it.initialized = true
	} else {
		hasNext = it.iter.Next()
	}
	if !hasNext {
		it.key = nil
		it.value = nil
		return false
	}

	// pebble reuses its buffers across Next calls.
	it.key = append([]byte{}, it.iter.Key()...)
	it.value = append([]byte{}, it.iter.Value()...)
	return true
}

func (it *iter) Error() error {
	if it.err != nil {
		return it.err
	}
	if it.closed {
		return nil
	}
	return updateError(it.iter.Error())
}

func (it *iter) Key() []byte { return it.key }

func (it *iter) Value() []byte { return it.value }

func (it *iter) Release() {
	if it.closed {
		return
	}
	it.closed = true
	it.key = nil
	it.value = nil
	if err := it.iter.Close(); err != nil && it.err == nil {
		it.err = updateError(err)
	}
}

func keyRange(start, prefix []byte) *pebble.IterOptions {
	opts := &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixToUpperBound(prefix),
	}
	if pebble.DefaultComparer.Compare(start, prefix) == 1 {
		opts.LowerBound = start
	}
	return opts
}

// prefixToUpperBound returns the smallest key that is larger than every key
// with [prefix], or nil if no such key exists.
func prefixToUpperBound(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xFF {
			upperBound := make([]byte, i+1)
			copy(upperBound, prefix)
			upperBound[i]++
			return upperBound
		}
	}
	return nil
}
