// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package balances

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/rpc/ratelimit"
)

const (
	rateLimitLedger = 200
	rateBurstLedger = 100
)

// Ledger - type for the RPC
type Ledger struct {
	Log     *logger.L
	Limiter *rate.Limiter
}

// New - create the ledger service
func New(log *logger.L) *Ledger {
	return &Ledger{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitLedger, rateBurstLedger),
	}
}

// Ledger.Get
// ----------

// GetArguments - arguments for RPC
type GetArguments struct {
	Account string `json:"account"`
}

// GetReply - balance of one account
type GetReply struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance,string"`
}

// Get - fetch the balance of a registered account
func (l *Ledger) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Ledger.Get: %+v", arguments)

	if err := account.ValidateName(arguments.Account); nil != err {
		return err
	}
	balance, err := ledger.Balance(nil, arguments.Account)
	if nil != err {
		return err
	}

	reply.Account = arguments.Account
	reply.Balance = balance
	return nil
}

// Ledger.Registered
// -----------------

// RegisteredReply - registration state of one account
type RegisteredReply struct {
	Account    string `json:"account"`
	Registered bool   `json:"registered"`
}

// Registered - check whether an account is registered
func (l *Ledger) Registered(arguments *GetArguments, reply *RegisteredReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Ledger.Registered: %+v", arguments)

	reply.Account = arguments.Account
	reply.Registered = ledger.IsRegistered(nil, arguments.Account)
	return nil
}

// Ledger.Supply
// -------------

// SupplyReply - total fungible supply
type SupplyReply struct {
	Supply uint64 `json:"supply,string"`
}

// Supply - fetch the total supply
func (l *Ledger) Supply(arguments *struct{}, reply *SupplyReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	reply.Supply = ledger.TotalSupply(nil)
	return nil
}

// Ledger.MinimumBalance
// ---------------------

// MinimumBalanceReply - bounds of the registration deposit
//
// the required deposit is the same for every account so the bounds
// coincide
type MinimumBalanceReply struct {
	Minimum uint64 `json:"minimum,string"`
	Maximum uint64 `json:"maximum,string"`
}

// MinimumBalance - fetch the registration deposit bounds
func (l *Ledger) MinimumBalance(arguments *struct{}, reply *MinimumBalanceReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	bound := ledger.MinimumBalance()
	reply.Minimum = bound
	reply.Maximum = bound
	return nil
}

// Ledger.Metadata
// ---------------

// MetadataReply - contract metadata
type MetadataReply struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Decimals  uint64 `json:"decimals,string"`
	Reference string `json:"reference"`
}

// Metadata - fetch the contract level metadata
func (l *Ledger) Metadata(arguments *struct{}, reply *MetadataReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}

	metadata, err := ledger.Metadata(nil)
	if nil != err {
		if fault.InvalidItem == err {
			// not set yet, reply with the zero value
			return nil
		}
		return err
	}

	reply.Name = metadata.Name
	reply.Symbol = metadata.Symbol
	reply.Decimals = metadata.Decimals
	reply.Reference = metadata.Reference
	return nil
}
