// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package sink

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/Anitsuga/KipuBank/vault"
)

var _ vault.TransferSink = (*Discard)(nil)

// Discard accepts every transfer without moving anything. Dev mode only:
// settlement is assumed to happen out of band. It deliberately does not
// implement [vault.Custodian]; there is no external figure to report.
type Discard struct{}

func (Discard) Transfer(context.Context, ids.ShortID, uint64) error {
	return nil
}
