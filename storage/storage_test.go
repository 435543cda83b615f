// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/Anitsuga/KipuBank/state"
)

var testAccount = ids.ShortID{0xaa}

func TestBalanceLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	// Unknown account reads as zero.
	bal, err := GetBalance(ctx, store, testAccount)
	require.NoError(err)
	require.Zero(bal)

	bal, err = AddBalance(ctx, store, testAccount, 100)
	require.NoError(err)
	require.Equal(uint64(100), bal)

	bal, err = SubBalance(ctx, store, testAccount, 40)
	require.NoError(err)
	require.Equal(uint64(60), bal)

	// Draining the balance removes the record entirely.
	bal, err = SubBalance(ctx, store, testAccount, 60)
	require.NoError(err)
	require.Zero(bal)
	_, err = store.GetValue(ctx, BalanceKey(testAccount))
	require.Error(err)
}

func TestSubBalanceMissingAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	_, err := SubBalance(ctx, store, testAccount, 1)
	require.ErrorIs(err, ErrInvalidBalance)
}

func TestSubBalanceUnderflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	_, err := AddBalance(ctx, store, testAccount, 10)
	require.NoError(err)
	_, err = SubBalance(ctx, store, testAccount, 11)
	require.ErrorIs(err, ErrInvalidBalance)
}

func TestTotalHeld(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	total, err := GetTotalHeld(ctx, store)
	require.NoError(err)
	require.Zero(total)

	total, err = AddTotalHeld(ctx, store, 70)
	require.NoError(err)
	require.Equal(uint64(70), total)

	total, err = SubTotalHeld(ctx, store, 30)
	require.NoError(err)
	require.Equal(uint64(40), total)

	// Underflow means the ledger lost sync with its balances.
	_, err = SubTotalHeld(ctx, store, 41)
	require.ErrorIs(err, ErrCorruption)
}

func TestCounters(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	count, err := IncDepositCount(ctx, store, testAccount)
	require.NoError(err)
	require.Equal(uint64(1), count)
	count, err = IncDepositCount(ctx, store, testAccount)
	require.NoError(err)
	require.Equal(uint64(2), count)

	count, err = IncWithdrawCount(ctx, store, testAccount)
	require.NoError(err)
	require.Equal(uint64(1), count)
	count, err = DecWithdrawCount(ctx, store, testAccount)
	require.NoError(err)
	require.Zero(count)

	// Decrementing past zero is corruption, not wraparound.
	_, err = DecWithdrawCount(ctx, store, testAccount)
	require.ErrorIs(err, ErrCorruption)

	count, err = IncGlobalDeposits(ctx, store)
	require.NoError(err)
	require.Equal(uint64(1), count)
	count, err = IncGlobalWithdrawals(ctx, store)
	require.NoError(err)
	require.Equal(uint64(1), count)
	count, err = DecGlobalWithdrawals(ctx, store)
	require.NoError(err)
	require.Zero(count)

	deposits, err := GetDepositCount(ctx, store, testAccount)
	require.NoError(err)
	require.Equal(uint64(2), deposits)
	withdrawals, err := GetWithdrawCount(ctx, store, testAccount)
	require.NoError(err)
	require.Zero(withdrawals)
}

func TestSumBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()

	sum, err := SumBalances(ctx, store)
	require.NoError(err)
	require.Zero(sum)

	accounts := []ids.ShortID{{0x1}, {0x2}, {0x3}}
	for i, account := range accounts {
		_, err := AddBalance(ctx, store, account, uint64(10*(i+1)))
		require.NoError(err)
	}
	// Counters share the store but must not contribute to the sum.
	_, err = IncDepositCount(ctx, store, accounts[0])
	require.NoError(err)
	_, err = AddTotalHeld(ctx, store, 60)
	require.NoError(err)

	sum, err = SumBalances(ctx, store)
	require.NoError(err)
	require.Equal(uint64(60), sum)
}
