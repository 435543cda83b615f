// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import "github.com/ava-labs/avalanchego/ids"

type Deposited struct {
	Account    ids.ShortID `json:"account"`
	Amount     uint64      `json:"amount"`
	NewBalance uint64      `json:"newBalance"`
}

type Withdrawn struct {
	Account    ids.ShortID `json:"account"`
	Amount     uint64      `json:"amount"`
	NewBalance uint64      `json:"newBalance"`
}

// Listener receives a [Deposited] or [Withdrawn] record after the operation
// it describes has fully committed (and, for withdrawals, after the sink
// confirmed the transfer). Listeners run synchronously on the operation's
// goroutine and must not call back into the vault.
type Listener interface {
	OnDeposit(Deposited)
	OnWithdraw(Withdrawn)
}
