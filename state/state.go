// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

// Immutable is a read-only view of ledger state. A missing key is reported
// with [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

// Mutable is a key-value store the ledger can write through.
type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Store is the full capability set the vault needs from its backing store:
// reads, writes, and prefix scans (used to audit the balance sum).
type Store interface {
	Mutable

	NewIteratorWithPrefix(prefix []byte) database.Iterator
}
