// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Params(ctx context.Context) (uint64, uint64, error) {
	resp := new(ParamsReply)
	err := cli.requester.SendRequest(ctx,
		Name+".params",
		nil,
		resp,
	)
	return resp.BankCap, resp.WithdrawLimit, err
}

func (cli *JSONRPCClient) Deposit(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	resp := new(DepositReply)
	err := cli.requester.SendRequest(ctx,
		Name+".deposit",
		&DepositArgs{Account: account.String(), Amount: amount},
		resp,
	)
	return resp.NewBalance, err
}

func (cli *JSONRPCClient) Withdraw(
	ctx context.Context,
	account ids.ShortID,
	amount uint64,
) (uint64, error) {
	resp := new(WithdrawReply)
	err := cli.requester.SendRequest(ctx,
		Name+".withdraw",
		&WithdrawArgs{Account: account.String(), Amount: amount},
		resp,
	)
	return resp.NewBalance, err
}

func (cli *JSONRPCClient) Balance(
	ctx context.Context,
	account ids.ShortID,
) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(ctx,
		Name+".balance",
		&BalanceArgs{Account: account.String()},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) TotalHeld(ctx context.Context) (uint64, error) {
	resp := new(TotalHeldReply)
	err := cli.requester.SendRequest(ctx,
		Name+".totalHeld",
		nil,
		resp,
	)
	return resp.TotalHeld, err
}

func (cli *JSONRPCClient) Custodied(ctx context.Context) (uint64, error) {
	resp := new(CustodiedReply)
	err := cli.requester.SendRequest(ctx,
		Name+".custodied",
		nil,
		resp,
	)
	return resp.Custodied, err
}

// Counters fetches the per-account counters for [account], or the global
// counters when [account] is empty.
func (cli *JSONRPCClient) Counters(
	ctx context.Context,
	account string,
) (uint64, uint64, error) {
	resp := new(CountersReply)
	err := cli.requester.SendRequest(ctx,
		Name+".counters",
		&CountersArgs{Account: account},
		resp,
	)
	return resp.Deposits, resp.Withdrawals, err
}
