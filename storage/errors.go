// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidBalance = errors.New("invalid balance")

	// ErrCorruption marks arithmetic that can only fail if the persisted
	// ledger no longer satisfies totalHeld == sum of balances. It is not
	// caller-correctable.
	ErrCorruption = errors.New("ledger state corrupted")
)
