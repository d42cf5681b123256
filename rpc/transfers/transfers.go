// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfers

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/dispatch"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/rpc/ratelimit"
	"github.com/keeperhq/tokend/transfer"
)

const (
	rateLimitTransfer = 200
	rateBurstTransfer = 100
)

// Transfer - type for the RPC
type Transfer struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the transfer service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Transfer {
	return &Transfer{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitTransfer, rateBurstTransfer),
		IsNormalMode: isNormalMode,
	}
}

// Transfer.Send
// -------------

// SendArguments - arguments for RPC
type SendArguments struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount,string"`
	Memo   string `json:"memo"`
}

// SendReply - result of a synchronous send
type SendReply struct {
	Ok bool `json:"ok"`
}

// Send - synchronous fungible transfer
func (t *Transfer) Send(arguments *SendArguments, reply *SendReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if !t.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	t.Log.Infof("Transfer.Send: %+v", arguments)

	err := transfer.Send(arguments.From, arguments.To, arguments.Amount, arguments.Memo)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Transfer.SendAndCall
// --------------------

// SendAndCallArguments - arguments for RPC
type SendAndCallArguments struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount,string"`
	Memo   string `json:"memo"`
	Budget uint64 `json:"budget,string"` // zero selects the default
}

// SendAndCallReply - id of the in-flight transfer
type SendAndCallReply struct {
	TransferId uint64 `json:"transferId,string"`
}

// SendAndCall - fungible transfer with receiver notification
func (t *Transfer) SendAndCall(arguments *SendAndCallArguments, reply *SendAndCallReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if !t.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	t.Log.Infof("Transfer.SendAndCall: %+v", arguments)

	budget := arguments.Budget
	if 0 == budget {
		budget = dispatch.DefaultBudget
	}
	id, err := transfer.SendAndCall(arguments.From, arguments.To, arguments.Amount, arguments.Memo, budget)
	if nil != err {
		return err
	}
	reply.TransferId = id
	return nil
}

// Transfer.TokenSend
// ------------------

// TokenSendArguments - arguments for RPC
type TokenSendArguments struct {
	Caller     string  `json:"caller"`
	To         string  `json:"to"`
	TokenId    string  `json:"tokenId"`
	ApprovalId *uint64 `json:"approvalId,string,omitempty"`
	Memo       string  `json:"memo"`
	Budget     uint64  `json:"budget,string"` // only for TokenSendAndCall
}

// TokenSend - synchronous ownership transfer
func (t *Transfer) TokenSend(arguments *TokenSendArguments, reply *SendReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if !t.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	t.Log.Infof("Transfer.TokenSend: %+v", arguments)

	err := transfer.TokenSend(arguments.Caller, arguments.To, arguments.TokenId, arguments.ApprovalId, arguments.Memo)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// TokenSendAndCall - ownership transfer with receiver notification
func (t *Transfer) TokenSendAndCall(arguments *TokenSendArguments, reply *SendAndCallReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if !t.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	t.Log.Infof("Transfer.TokenSendAndCall: %+v", arguments)

	budget := arguments.Budget
	if 0 == budget {
		budget = dispatch.DefaultBudget
	}
	id, err := transfer.TokenSendAndCall(arguments.Caller, arguments.To, arguments.TokenId, arguments.ApprovalId, arguments.Memo, budget)
	if nil != err {
		return err
	}
	reply.TransferId = id
	return nil
}

// Transfer.Status
// ---------------

// StatusArguments - arguments for RPC
type StatusArguments struct {
	TransferId uint64 `json:"transferId,string"`
}

// Status - current state of an in-flight or resolved transfer
func (t *Transfer) Status(arguments *StatusArguments, reply *transfer.Record) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}

	record, err := transfer.Status(arguments.TransferId)
	if nil != err {
		return err
	}
	*reply = record
	return nil
}
