// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vault implements the custodial ledger: per-account balances
// deposited against a fixed global cap and withdrawn under a fixed
// per-operation limit, with the external movement of value delegated to a
// [TransferSink] the vault must not trust.
package vault

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/Anitsuga/KipuBank/state"
	"github.com/Anitsuga/KipuBank/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

type Vault struct {
	log     logging.Logger
	metrics *metrics

	store state.Store
	sink  TransferSink

	bankCap       uint64
	withdrawLimit uint64

	// lock serializes accounting. It is deliberately NOT held across the
	// sink call: a sink that synchronously re-enters must reach the
	// reentrancy flag and fail fast instead of deadlocking.
	lock sync.Mutex

	// withdrawing is the reentrancy lock. Set for the whole duration of a
	// withdrawal, cleared on every exit path.
	withdrawing atomic.Bool

	// pendingDebit is value debited from the ledger but not yet resolved by
	// the sink. It still occupies cap headroom: a failed transfer re-credits
	// it, so an interleaved deposit must not take its place. Guarded by
	// [lock].
	pendingDebit uint64

	listeners []Listener
}

// New builds a vault over [store]. The cap and limit are fixed for the
// vault's lifetime. The returned registry carries the vault's metrics.
func New(
	ctx context.Context,
	log logging.Logger,
	store state.Store,
	sink TransferSink,
	bankCap uint64,
	withdrawLimit uint64,
) (*Vault, *prometheus.Registry, error) {
	switch {
	case bankCap == 0:
		return nil, nil, ErrInvalidBankCap
	case withdrawLimit == 0:
		return nil, nil, ErrInvalidWithdrawLimit
	case sink == nil:
		return nil, nil, errors.New("transfer sink required")
	}
	r, m, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	v := &Vault{
		log:           log,
		metrics:       m,
		store:         store,
		sink:          sink,
		bankCap:       bankCap,
		withdrawLimit: withdrawLimit,
	}
	total, err := storage.GetTotalHeld(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	m.totalHeld.Set(float64(total))
	return v, r, nil
}

// RegisterListener must be called before the vault starts serving
// operations; registration is not synchronized with them.
func (v *Vault) RegisterListener(l Listener) {
	v.listeners = append(v.listeners, l)
}

func (v *Vault) BankCap() uint64 { return v.bankCap }

func (v *Vault) WithdrawLimit() uint64 { return v.withdrawLimit }

// Deposit credits [amount] to [account]. The cap check uses the prospective
// post-deposit total, including any debit still awaiting sink resolution, so
// the cap cannot be exceeded even transiently or by a rollback. All mutations
// land atomically through a buffered view; no partial state is observable on
// any failure.
func (v *Vault) Deposit(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	if amount == 0 {
		v.metrics.rejections.Inc()
		return 0, ErrZeroAmount
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	view := state.NewView(v.store)
	total, err := storage.GetTotalHeld(ctx, view)
	if err != nil {
		return 0, err
	}
	attempted, err := smath.Add(total, v.pendingDebit)
	if err == nil {
		attempted, err = smath.Add(attempted, amount)
	}
	if err != nil {
		attempted = math.MaxUint64
	}
	if attempted > v.bankCap {
		v.metrics.rejections.Inc()
		return 0, &CapExceededError{Attempted: attempted, Cap: v.bankCap}
	}

	newBalance, err := storage.AddBalance(ctx, view, account, amount)
	if err != nil {
		return 0, err
	}
	newTotal, err := storage.AddTotalHeld(ctx, view, amount)
	if err != nil {
		return 0, err
	}
	if _, err := storage.IncDepositCount(ctx, view, account); err != nil {
		return 0, err
	}
	if _, err := storage.IncGlobalDeposits(ctx, view); err != nil {
		return 0, err
	}
	if err := view.Commit(ctx, v.store); err != nil {
		return 0, err
	}

	v.metrics.deposits.Inc()
	v.metrics.depositedValue.Add(float64(amount))
	v.metrics.totalHeld.Set(float64(newTotal))
	v.log.Debug("deposit accepted",
		zap.Stringer("account", account),
		zap.Uint64("amount", amount),
		zap.Uint64("newBalance", newBalance),
	)
	for _, l := range v.listeners {
		l.OnDeposit(Deposited{
			Account:    account,
			Amount:     amount,
			NewBalance: newBalance,
		})
	}
	return newBalance, nil
}

// Withdraw debits [amount] from [account] and hands it to the sink. The
// ledger is fully debited before the sink sees control
// (checks-effects-interactions); the reentrancy flag is defense-in-depth on
// top of that ordering. If the sink fails, the debit is reversed exactly and
// the operation reports ErrTransferFailed with nothing mutated.
func (v *Vault) Withdraw(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	if !v.withdrawing.CompareAndSwap(false, true) {
		v.metrics.reentrancyHits.Inc()
		return 0, ErrReentrancy
	}
	defer v.withdrawing.Store(false)

	if amount == 0 {
		v.metrics.rejections.Inc()
		return 0, ErrZeroAmount
	}
	if amount > v.withdrawLimit {
		v.metrics.rejections.Inc()
		return 0, &WithdrawLimitError{Requested: amount, Limit: v.withdrawLimit}
	}

	newBalance, newTotal, err := v.debit(ctx, account, amount)
	if err != nil {
		return 0, err
	}
	defer v.settleDebit()

	if serr := v.sink.Transfer(ctx, account, amount); serr != nil {
		if rerr := v.credit(ctx, account, amount); rerr != nil {
			// Funds are in limbo: debited but neither transferred nor
			// restored. Nothing the caller can do; surface as corruption.
			return 0, fmt.Errorf(
				"%w: rollback failed (%s) after sink error (%s)",
				storage.ErrCorruption, rerr, serr,
			)
		}
		v.metrics.transferFailers.Inc()
		v.log.Warn("withdrawal rolled back",
			zap.Stringer("account", account),
			zap.Uint64("amount", amount),
			zap.Error(serr),
		)
		return 0, &TransferFailedError{Cause: serr}
	}

	v.metrics.withdrawals.Inc()
	v.metrics.withdrawnValue.Add(float64(amount))
	v.metrics.totalHeld.Set(float64(newTotal))
	v.log.Debug("withdrawal completed",
		zap.Stringer("account", account),
		zap.Uint64("amount", amount),
		zap.Uint64("newBalance", newBalance),
	)
	for _, l := range v.listeners {
		l.OnWithdraw(Withdrawn{
			Account:    account,
			Amount:     amount,
			NewBalance: newBalance,
		})
	}
	return newBalance, nil
}

func (v *Vault) debit(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) (uint64, uint64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	view := state.NewView(v.store)
	balance, err := storage.GetBalance(ctx, view, account)
	if err != nil {
		return 0, 0, err
	}
	if amount > balance {
		v.metrics.rejections.Inc()
		return 0, 0, &InsufficientBalanceError{Requested: amount, Available: balance}
	}
	newBalance, err := storage.SubBalance(ctx, view, account, amount)
	if err != nil {
		return 0, 0, err
	}
	newTotal, err := storage.SubTotalHeld(ctx, view, amount)
	if err != nil {
		return 0, 0, err
	}
	if _, err := storage.IncWithdrawCount(ctx, view, account); err != nil {
		return 0, 0, err
	}
	if _, err := storage.IncGlobalWithdrawals(ctx, view); err != nil {
		return 0, 0, err
	}
	if err := view.Commit(ctx, v.store); err != nil {
		return 0, 0, err
	}
	v.pendingDebit = amount
	return newBalance, newTotal, nil
}

// settleDebit releases the cap headroom reserved by debit, once the sink has
// resolved and any rollback has been applied.
func (v *Vault) settleDebit() {
	v.lock.Lock()
	v.pendingDebit = 0
	v.lock.Unlock()
}

// credit reverses a debit after a sink failure. It reapplies the exact
// inverse deltas rather than restoring a snapshot, so a deposit the sink
// managed to make before failing is preserved.
func (v *Vault) credit(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	view := state.NewView(v.store)
	if _, err := storage.AddBalance(ctx, view, account, amount); err != nil {
		return err
	}
	newTotal, err := storage.AddTotalHeld(ctx, view, amount)
	if err != nil {
		return err
	}
	if _, err := storage.DecWithdrawCount(ctx, view, account); err != nil {
		return err
	}
	if _, err := storage.DecGlobalWithdrawals(ctx, view); err != nil {
		return err
	}
	if err := view.Commit(ctx, v.store); err != nil {
		return err
	}
	v.metrics.totalHeld.Set(float64(newTotal))
	return nil
}

// BalanceOf reports the ledger balance of [account]; an account that never
// interacted reports 0.
func (v *Vault) BalanceOf(ctx context.Context, account ids.ShortID) (uint64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()
	return storage.GetBalance(ctx, v.store, account)
}

// TotalHeld reports the ledger's recorded total. This is the internal
// figure; see [Vault.ActualCustodiedValue] for the counterparty's.
func (v *Vault) TotalHeld(ctx context.Context) (uint64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()
	return storage.GetTotalHeld(ctx, v.store)
}

// ActualCustodiedValue reports the externally observable custodied value, if
// the sink can provide it.
func (v *Vault) ActualCustodiedValue(ctx context.Context) (uint64, error) {
	c, ok := v.sink.(Custodian)
	if !ok {
		return 0, ErrNoCustodian
	}
	return c.CustodiedValue(ctx)
}

type Counters struct {
	Deposits    uint64 `json:"deposits"`
	Withdrawals uint64 `json:"withdrawals"`
}

func (v *Vault) AccountCounters(ctx context.Context, account ids.ShortID) (Counters, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	deposits, err := storage.GetDepositCount(ctx, v.store, account)
	if err != nil {
		return Counters{}, err
	}
	withdrawals, err := storage.GetWithdrawCount(ctx, v.store, account)
	if err != nil {
		return Counters{}, err
	}
	return Counters{Deposits: deposits, Withdrawals: withdrawals}, nil
}

func (v *Vault) GlobalCounters(ctx context.Context) (Counters, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	deposits, err := storage.GetGlobalDeposits(ctx, v.store)
	if err != nil {
		return Counters{}, err
	}
	withdrawals, err := storage.GetGlobalWithdrawals(ctx, v.store)
	if err != nil {
		return Counters{}, err
	}
	return Counters{Deposits: deposits, Withdrawals: withdrawals}, nil
}

// Audit recomputes the balance sum from storage and checks it against the
// recorded total and the cap. Run at startup before serving traffic.
func (v *Vault) Audit(ctx context.Context) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	sum, err := storage.SumBalances(ctx, v.store)
	if err != nil {
		return err
	}
	total, err := storage.GetTotalHeld(ctx, v.store)
	if err != nil {
		return err
	}
	if sum != total {
		return fmt.Errorf(
			"%w: recorded total %d != balance sum %d",
			storage.ErrCorruption, total, sum,
		)
	}
	if total > v.bankCap {
		return fmt.Errorf(
			"%w: persisted total %d exceeds configured cap %d",
			ErrInvalidBankCap, total, v.bankCap,
		)
	}
	v.metrics.totalHeld.Set(float64(total))
	return nil
}
