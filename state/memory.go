// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/ava-labs/avalanchego/database"
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a map-backed [Store] used by tests and by dev mode where
// persistence is not wanted.
type InMemoryStore struct {
	lock    sync.RWMutex
	storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		storage: map[string][]byte{},
	}
}

func (s *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	value, ok := s.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return value, nil
}

func (s *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.storage[string(key)] = value
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, key []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.storage, string(key))
	return nil
}

// NewIteratorWithPrefix iterates a snapshot of the current contents in key
// order, so concurrent writes don't disturb an in-flight scan.
func (s *InMemoryStore) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	s.lock.RLock()
	defer s.lock.RUnlock()

	keys := make([]string, 0, len(s.storage))
	for key := range s.storage {
		if bytes.HasPrefix([]byte(key), prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	it := &memIterator{
		keys:   make([][]byte, len(keys)),
		values: make([][]byte, len(keys)),
	}
	for i, key := range keys {
		it.keys[i] = []byte(key)
		it.values[i] = s.storage[key]
	}
	return it
}

var _ database.Iterator = (*memIterator)(nil)

type memIterator struct {
	keys   [][]byte
	values [][]byte

	index int
}

func (it *memIterator) Next() bool {
	if it.index >= len(it.keys) {
		it.keys = nil
		it.values = nil
		return false
	}
	it.index++
	return true
}

func (*memIterator) Error() error { return nil }

func (it *memIterator) Key() []byte {
	if it.index == 0 || it.index > len(it.keys) {
		return nil
	}
	return it.keys[it.index-1]
}

func (it *memIterator) Value() []byte {
	if it.index == 0 || it.index > len(it.values) {
		return nil
	}
	return it.values[it.index-1]
}

func (it *memIterator) Release() {
	it.keys = nil
	it.values = nil
}
