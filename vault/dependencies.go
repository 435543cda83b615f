// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
)

// TransferSink moves value out of the vault to a recipient. The vault does
// not own the sink and treats it as fallible and potentially adversarial: it
// may reject the transfer, fail mid-flight, or call back into the vault
// before returning.
type TransferSink interface {
	Transfer(ctx context.Context, to ids.ShortID, amount uint64) error
}

// Custodian is optionally implemented by a [TransferSink] that can report the
// externally observable value it holds on the vault's behalf. The figure is
// the counterparty's, not the ledger's; the two are reconciled by Audit but
// never conflated.
type Custodian interface {
	CustodiedValue(ctx context.Context) (uint64, error)
}
