// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/Anitsuga/KipuBank/vault"
)

type JSONRPCServer struct {
	ledger Ledger
	log    logging.Logger
}

func NewJSONRPCServer(ledger Ledger, log logging.Logger) *JSONRPCServer {
	return &JSONRPCServer{
		ledger: ledger,
		log:    log,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type ParamsReply struct {
	BankCap       uint64 `json:"bankCap"`
	WithdrawLimit uint64 `json:"withdrawLimit"`
}

func (j *JSONRPCServer) Params(_ *http.Request, _ *struct{}, reply *ParamsReply) error {
	reply.BankCap = j.ledger.BankCap()
	reply.WithdrawLimit = j.ledger.WithdrawLimit()
	return nil
}

type DepositArgs struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type DepositReply struct {
	NewBalance uint64 `json:"newBalance"`
}

func (j *JSONRPCServer) Deposit(
	req *http.Request,
	args *DepositArgs,
	reply *DepositReply,
) error {
	account, err := parseAccount(args.Account)
	if err != nil {
		return err
	}
	newBalance, err := j.ledger.Deposit(req.Context(), account, args.Amount)
	if err != nil {
		return err
	}
	reply.NewBalance = newBalance
	return nil
}

// Receive is the implicit-deposit boundary: an inbound value transfer that
// arrived with no other instruction is accounted as a deposit from the
// sender, with the same validation as the explicit path.
func (j *JSONRPCServer) Receive(
	req *http.Request,
	args *DepositArgs,
	reply *DepositReply,
) error {
	j.log.Debug("inbound transfer treated as deposit",
		zap.String("account", args.Account),
		zap.Uint64("amount", args.Amount),
	)
	return j.Deposit(req, args, reply)
}

type WithdrawArgs struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type WithdrawReply struct {
	NewBalance uint64 `json:"newBalance"`
}

func (j *JSONRPCServer) Withdraw(
	req *http.Request,
	args *WithdrawArgs,
	reply *WithdrawReply,
) error {
	account, err := parseAccount(args.Account)
	if err != nil {
		return err
	}
	newBalance, err := j.ledger.Withdraw(req.Context(), account, args.Amount)
	if err != nil {
		return err
	}
	reply.NewBalance = newBalance
	return nil
}

type BalanceArgs struct {
	Account string `json:"account"`
}

type BalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) Balance(
	req *http.Request,
	args *BalanceArgs,
	reply *BalanceReply,
) error {
	account, err := parseAccount(args.Account)
	if err != nil {
		return err
	}
	balance, err := j.ledger.BalanceOf(req.Context(), account)
	if err != nil {
		return err
	}
	reply.Balance = balance
	return nil
}

type TotalHeldReply struct {
	TotalHeld uint64 `json:"totalHeld"`
}

func (j *JSONRPCServer) TotalHeld(
	req *http.Request,
	_ *struct{},
	reply *TotalHeldReply,
) error {
	total, err := j.ledger.TotalHeld(req.Context())
	if err != nil {
		return err
	}
	reply.TotalHeld = total
	return nil
}

type CustodiedReply struct {
	Custodied uint64 `json:"custodied"`
}

func (j *JSONRPCServer) Custodied(
	req *http.Request,
	_ *struct{},
	reply *CustodiedReply,
) error {
	custodied, err := j.ledger.ActualCustodiedValue(req.Context())
	if err != nil {
		return err
	}
	reply.Custodied = custodied
	return nil
}

type CountersArgs struct {
	// Account is optional; empty requests the global counters.
	Account string `json:"account"`
}

type CountersReply struct {
	Deposits    uint64 `json:"deposits"`
	Withdrawals uint64 `json:"withdrawals"`
}

func (j *JSONRPCServer) Counters(
	req *http.Request,
	args *CountersArgs,
	reply *CountersReply,
) error {
	var (
		counters vault.Counters
		err      error
	)
	if args.Account == "" {
		counters, err = j.ledger.GlobalCounters(req.Context())
	} else {
		var account ids.ShortID
		account, err = parseAccount(args.Account)
		if err != nil {
			return err
		}
		counters, err = j.ledger.AccountCounters(req.Context(), account)
	}
	if err != nil {
		return err
	}
	reply.Deposits = counters.Deposits
	reply.Withdrawals = counters.Withdrawals
	return nil
}

func parseAccount(s string) (ids.ShortID, error) {
	account, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, ErrInvalidAccount
	}
	return account, nil
}
