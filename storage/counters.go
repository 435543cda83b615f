// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/Anitsuga/KipuBank/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Counters are observational only. They are bumped together with the balance
// mutation they describe, inside the same buffered view, so a failed
// operation never leaves a stray count behind.

func GetDepositCount(
	ctx context.Context,
	im state.Immutable,
	account ids.ShortID,
) (uint64, error) {
	count, _, err := innerGetUint64(im.GetValue(ctx, DepositCountKey(account)))
	return count, err
}

func GetWithdrawCount(
	ctx context.Context,
	im state.Immutable,
	account ids.ShortID,
) (uint64, error) {
	count, _, err := innerGetUint64(im.GetValue(ctx, WithdrawCountKey(account)))
	return count, err
}

func GetGlobalDeposits(
	ctx context.Context,
	im state.Immutable,
) (uint64, error) {
	count, _, err := innerGetUint64(im.GetValue(ctx, globalDepositsKey))
	return count, err
}

func GetGlobalWithdrawals(
	ctx context.Context,
	im state.Immutable,
) (uint64, error) {
	count, _, err := innerGetUint64(im.GetValue(ctx, globalWithdrawalsKey))
	return count, err
}

func IncDepositCount(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
) (uint64, error) {
	return bumpCounter(ctx, mu, DepositCountKey(account), false)
}

func IncWithdrawCount(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
) (uint64, error) {
	return bumpCounter(ctx, mu, WithdrawCountKey(account), false)
}

func IncGlobalDeposits(
	ctx context.Context,
	mu state.Mutable,
) (uint64, error) {
	return bumpCounter(ctx, mu, globalDepositsKey, false)
}

func IncGlobalWithdrawals(
	ctx context.Context,
	mu state.Mutable,
) (uint64, error) {
	return bumpCounter(ctx, mu, globalWithdrawalsKey, false)
}

// DecWithdrawCount exists only for the transfer-failure rollback path, which
// must restore the exact pre-withdrawal state.
func DecWithdrawCount(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
) (uint64, error) {
	return bumpCounter(ctx, mu, WithdrawCountKey(account), true)
}

// DecGlobalWithdrawals exists only for the transfer-failure rollback path.
func DecGlobalWithdrawals(
	ctx context.Context,
	mu state.Mutable,
) (uint64, error) {
	return bumpCounter(ctx, mu, globalWithdrawalsKey, true)
}

func bumpCounter(
	ctx context.Context,
	mu state.Mutable,
	key []byte,
	sub bool,
) (uint64, error) {
	count, _, err := innerGetUint64(mu.GetValue(ctx, key))
	if err != nil {
		return 0, err
	}
	var ncount uint64
	if sub {
		ncount, err = smath.Sub(count, uint64(1))
	} else {
		ncount, err = smath.Add(count, uint64(1))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: counter out of range (count=%d)", ErrCorruption, count)
	}
	return ncount, setUint64(ctx, mu, key, ncount)
}
