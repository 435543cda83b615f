// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/Anitsuga/KipuBank/vault"
)

// Ledger is the surface the JSON-RPC server needs from the vault.
type Ledger interface {
	Deposit(ctx context.Context, account ids.ShortID, amount uint64) (uint64, error)
	Withdraw(ctx context.Context, account ids.ShortID, amount uint64) (uint64, error)
	BalanceOf(ctx context.Context, account ids.ShortID) (uint64, error)
	TotalHeld(ctx context.Context) (uint64, error)
	ActualCustodiedValue(ctx context.Context) (uint64, error)
	AccountCounters(ctx context.Context, account ids.ShortID) (vault.Counters, error)
	GlobalCounters(ctx context.Context) (vault.Counters, error)
	BankCap() uint64
	WithdrawLimit() uint64
}

var _ Ledger = (*vault.Vault)(nil)
