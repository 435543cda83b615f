// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Store = (*databaseStore)(nil)

// databaseStore adapts a [database.Database] (pebble in production, memdb in
// tests) to the context-aware [Store] interface the vault consumes.
type databaseStore struct {
	db database.Database
}

func FromDatabase(db database.Database) Store {
	return &databaseStore{db: db}
}

func (s *databaseStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return s.db.Get(key)
}

func (s *databaseStore) Insert(_ context.Context, key []byte, value []byte) error {
	return s.db.Put(key, value)
}

func (s *databaseStore) Remove(_ context.Context, key []byte) error {
	return s.db.Delete(key)
}

func (s *databaseStore) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return s.db.NewIteratorWithPrefix(prefix)
}
