// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"errors"
	"fmt"
)

var (
	ErrZeroAmount          = errors.New("amount is zero")
	ErrCapExceeded         = errors.New("bank cap exceeded")
	ErrWithdrawLimit       = errors.New("withdrawal limit exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrReentrancy          = errors.New("reentrant withdrawal")
	ErrTransferFailed      = errors.New("transfer failed")
	ErrNoCustodian         = errors.New("sink cannot report custodied value")

	ErrInvalidBankCap       = errors.New("bank cap must be > 0")
	ErrInvalidWithdrawLimit = errors.New("withdrawal limit must be > 0")
)

// CapExceededError reports a deposit that would push the held total past the
// bank cap. Attempted is the prospective post-deposit total.
type CapExceededError struct {
	Attempted uint64
	Cap       uint64
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("%s: attempted total %d > cap %d", ErrCapExceeded, e.Attempted, e.Cap)
}

func (*CapExceededError) Unwrap() error { return ErrCapExceeded }

type WithdrawLimitError struct {
	Requested uint64
	Limit     uint64
}

func (e *WithdrawLimitError) Error() string {
	return fmt.Sprintf("%s: requested %d > limit %d", ErrWithdrawLimit, e.Requested, e.Limit)
}

func (*WithdrawLimitError) Unwrap() error { return ErrWithdrawLimit }

type InsufficientBalanceError struct {
	Requested uint64
	Available uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: requested %d > available %d", ErrInsufficientBalance, e.Requested, e.Available)
}

func (*InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// TransferFailedError wraps whatever the sink reported. Callers match on
// [ErrTransferFailed]; the cause is kept for diagnostics only.
type TransferFailedError struct {
	Cause error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTransferFailed, e.Cause)
}

func (*TransferFailedError) Unwrap() error { return ErrTransferFailed }
