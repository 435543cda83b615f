// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/Anitsuga/KipuBank/consts"
	"github.com/Anitsuga/KipuBank/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (balance)
//   -> [account] => balance
// 0x1/ (deposit count)
//   -> [account] => count
// 0x2/ (withdrawal count)
//   -> [account] => count
// 0x3/ (ledger singletons)
//   -> 0x0 => total held value
//   -> 0x1 => global deposit count
//   -> 0x2 => global withdrawal count

const (
	balancePrefix       byte = 0x0
	depositCountPrefix  byte = 0x1
	withdrawCountPrefix byte = 0x2
	ledgerPrefix        byte = 0x3
)

const (
	totalHeldByte         byte = 0x0
	globalDepositsByte    byte = 0x1
	globalWithdrawalsByte byte = 0x2
)

var (
	totalHeldKey         = []byte{ledgerPrefix, totalHeldByte}
	globalDepositsKey    = []byte{ledgerPrefix, globalDepositsByte}
	globalWithdrawalsKey = []byte{ledgerPrefix, globalWithdrawalsByte}
)

// [balancePrefix] + [account]
func BalanceKey(account ids.ShortID) []byte {
	return accountKey(balancePrefix, account)
}

// [depositCountPrefix] + [account]
func DepositCountKey(account ids.ShortID) []byte {
	return accountKey(depositCountPrefix, account)
}

// [withdrawCountPrefix] + [account]
func WithdrawCountKey(account ids.ShortID) []byte {
	return accountKey(withdrawCountPrefix, account)
}

func accountKey(prefix byte, account ids.ShortID) []byte {
	k := make([]byte, consts.ByteLen+ids.ShortIDLen)
	k[0] = prefix
	copy(k[1:], account[:])
	return k
}

func GetBalance(
	ctx context.Context,
	im state.Immutable,
	account ids.ShortID,
) (uint64, error) {
	_, bal, _, err := getBalance(ctx, im, account)
	return bal, err
}

func getBalance(
	ctx context.Context,
	im state.Immutable,
	account ids.ShortID,
) ([]byte, uint64, bool, error) {
	k := BalanceKey(account)
	bal, exists, err := innerGetUint64(im.GetValue(ctx, k))
	return k, bal, exists, err
}

func innerGetUint64(
	v []byte,
	err error,
) (uint64, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	val, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func SetBalance(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
	balance uint64,
) error {
	return setUint64(ctx, mu, BalanceKey(account), balance)
}

func setUint64(
	ctx context.Context,
	mu state.Mutable,
	key []byte,
	val uint64,
) error {
	return mu.Insert(ctx, key, binary.BigEndian.AppendUint64(nil, val))
}

func AddBalance(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	key, bal, _, err := getBalance(ctx, mu, account)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, account=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			account,
			amount,
		)
	}
	return nbal, setUint64(ctx, mu, key, nbal)
}

func SubBalance(
	ctx context.Context,
	mu state.Mutable,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	key, bal, ok, err := getBalance(ctx, mu, account)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInvalidBalance
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, account=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			account,
			amount,
		)
	}
	if nbal == 0 {
		// A fully withdrawn account is removed rather than kept at 0.
		return 0, mu.Remove(ctx, key)
	}
	return nbal, setUint64(ctx, mu, key, nbal)
}

func GetTotalHeld(
	ctx context.Context,
	im state.Immutable,
) (uint64, error) {
	total, _, err := innerGetUint64(im.GetValue(ctx, totalHeldKey))
	return total, err
}

func SetTotalHeld(
	ctx context.Context,
	mu state.Mutable,
	total uint64,
) error {
	return setUint64(ctx, mu, totalHeldKey, total)
}

func AddTotalHeld(
	ctx context.Context,
	mu state.Mutable,
	amount uint64,
) (uint64, error) {
	total, err := GetTotalHeld(ctx, mu)
	if err != nil {
		return 0, err
	}
	ntotal, err := smath.Add(total, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: total held value overflow (total=%d, amount=%d)",
			ErrCorruption,
			total,
			amount,
		)
	}
	return ntotal, SetTotalHeld(ctx, mu, ntotal)
}

// SubTotalHeld underflowing means the recorded total drifted below the sum of
// balances; the preceding balance check already bounded [amount], so this is
// surfaced as corruption, not a caller error.
func SubTotalHeld(
	ctx context.Context,
	mu state.Mutable,
	amount uint64,
) (uint64, error) {
	total, err := GetTotalHeld(ctx, mu)
	if err != nil {
		return 0, err
	}
	ntotal, err := smath.Sub(total, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: total held value underflow (total=%d, amount=%d)",
			ErrCorruption,
			total,
			amount,
		)
	}
	return ntotal, SetTotalHeld(ctx, mu, ntotal)
}

// SumBalances scans every account balance and returns their checked sum. Used
// to audit the ledger against the recorded total at startup.
func SumBalances(
	ctx context.Context,
	store state.Store,
) (uint64, error) {
	it := store.NewIteratorWithPrefix([]byte{balancePrefix})
	defer it.Release()

	var sum uint64
	for it.Next() {
		bal, err := database.ParseUInt64(it.Value())
		if err != nil {
			return 0, err
		}
		sum, err = smath.Add(sum, bal)
		if err != nil {
			return 0, fmt.Errorf("%w: balance sum overflow", ErrCorruption)
		}
	}
	return sum, it.Error()
}
