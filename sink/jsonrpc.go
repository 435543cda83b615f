// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sink provides TransferSink implementations. The vault treats every
// non-success from a sink, transport faults included, as the same
// transfer-failed condition.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/Anitsuga/KipuBank/vault"
)

const Endpoint = "/settlement"

var ErrRejected = errors.New("settlement rejected transfer")

var (
	_ vault.TransferSink = (*JSONRPC)(nil)
	_ vault.Custodian    = (*JSONRPC)(nil)
)

// JSONRPC settles transfers against an external settlement service.
type JSONRPC struct {
	requester rpc.EndpointRequester
}

func NewJSONRPC(uri string) *JSONRPC {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPC{requester: rpc.NewEndpointRequester(uri)}
}

type TransferArgs struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type TransferReply struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

func (s *JSONRPC) Transfer(ctx context.Context, to ids.ShortID, amount uint64) error {
	resp := new(TransferReply)
	if err := s.requester.SendRequest(ctx,
		"settlement.transfer",
		&TransferArgs{To: to.String(), Amount: amount},
		resp,
	); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Reason)
	}
	return nil
}

type CustodiedReply struct {
	Value uint64 `json:"value"`
}

func (s *JSONRPC) CustodiedValue(ctx context.Context) (uint64, error) {
	resp := new(CustodiedReply)
	err := s.requester.SendRequest(ctx,
		"settlement.custodied",
		nil,
		resp,
	)
	return resp.Value, err
}
