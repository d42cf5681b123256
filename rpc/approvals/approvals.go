// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approvals

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/rpc/ratelimit"
	"github.com/keeperhq/tokend/storage"
)

const (
	rateLimitApproval = 200
	rateBurstApproval = 100
)

// Approval - type for the RPC
type Approval struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the approval service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Approval {
	return &Approval{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitApproval, rateBurstApproval),
		IsNormalMode: isNormalMode,
	}
}

// run one approval mutation inside a committed transaction
func inTransaction(f func(trx storage.Transaction) error) error {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}
	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// Approval.Grant
// --------------

// GrantArguments - arguments for RPC
type GrantArguments struct {
	TokenId string `json:"tokenId"`
	Caller  string `json:"caller"`
	Grantee string `json:"grantee"`
}

// GrantReply - the approval id issued
type GrantReply struct {
	TokenId    string `json:"tokenId"`
	Grantee    string `json:"grantee"`
	ApprovalId uint64 `json:"approvalId,string"`
}

// Grant - authorise an account to transfer a token
func (a *Approval) Grant(arguments *GrantArguments, reply *GrantReply) error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	if !a.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	a.Log.Infof("Approval.Grant: %+v", arguments)

	var id uint64
	err := inTransaction(func(trx storage.Transaction) error {
		var err error
		id, err = registry.Approve(trx, arguments.TokenId, arguments.Caller, arguments.Grantee)
		return err
	})
	if nil != err {
		return err
	}

	reply.TokenId = arguments.TokenId
	reply.Grantee = arguments.Grantee
	reply.ApprovalId = id
	return nil
}

// Approval.Revoke
// ---------------

// RevokeReply - whether an entry was removed
type RevokeReply struct {
	Removed bool `json:"removed"`
}

// Revoke - remove one transfer authorisation
func (a *Approval) Revoke(arguments *GrantArguments, reply *RevokeReply) error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	if !a.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	a.Log.Infof("Approval.Revoke: %+v", arguments)

	var removed bool
	err := inTransaction(func(trx storage.Transaction) error {
		var err error
		removed, err = registry.Revoke(trx, arguments.TokenId, arguments.Caller, arguments.Grantee)
		return err
	})
	if nil != err {
		return err
	}
	reply.Removed = removed
	return nil
}

// Approval.RevokeAll
// ------------------

// RevokeAllArguments - arguments for RPC
type RevokeAllArguments struct {
	TokenId string `json:"tokenId"`
	Caller  string `json:"caller"`
}

// RevokeAllReply - entries cleared, for storage refund accounting
type RevokeAllReply struct {
	Cleared int `json:"cleared"`
}

// RevokeAll - remove every transfer authorisation on a token
func (a *Approval) RevokeAll(arguments *RevokeAllArguments, reply *RevokeAllReply) error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	if !a.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	a.Log.Infof("Approval.RevokeAll: %+v", arguments)

	var cleared int
	err := inTransaction(func(trx storage.Transaction) error {
		var err error
		cleared, err = registry.RevokeAll(trx, arguments.TokenId, arguments.Caller)
		return err
	})
	if nil != err {
		return err
	}
	reply.Cleared = cleared
	return nil
}

// Approval.Check
// --------------

// CheckArguments - arguments for RPC
//
// a pinned approval id must match the stored entry exactly
type CheckArguments struct {
	TokenId    string  `json:"tokenId"`
	Grantee    string  `json:"grantee"`
	ApprovalId *uint64 `json:"approvalId,string,omitempty"`
}

// CheckReply - result of the approval query
type CheckReply struct {
	Approved bool `json:"approved"`
}

// Check - query a transfer authorisation
func (a *Approval) Check(arguments *CheckArguments, reply *CheckReply) error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	a.Log.Infof("Approval.Check: %+v", arguments)

	approved, err := registry.IsApproved(nil, arguments.TokenId, arguments.Grantee, arguments.ApprovalId)
	if nil != err {
		return err
	}
	reply.Approved = approved
	return nil
}
