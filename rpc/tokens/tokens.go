// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokens

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/rpc/ratelimit"
	"github.com/keeperhq/tokend/tokenrecord"
)

const (
	maximumListCount = 100
	rateLimitToken   = 200
	rateBurstToken   = 100
)

// Token - type for the RPC
type Token struct {
	Log     *logger.L
	Limiter *rate.Limiter
}

// New - create the token service
func New(log *logger.L) *Token {
	return &Token{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitToken, rateBurstToken),
	}
}

// Token.Get
// ---------

// GetArguments - arguments for RPC
type GetArguments struct {
	TokenId string `json:"tokenId"`
}

// GetReply - one token instance with its approvals
type GetReply struct {
	TokenId   string                 `json:"tokenId"`
	Owner     string                 `json:"owner"`
	IssuedAt  uint64                 `json:"issuedAt,string"`
	Approvals []tokenrecord.Approval `json:"approvals"`
}

// Get - fetch one token instance
func (t *Token) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	t.Log.Infof("Token.Get: %+v", arguments)

	token, err := registry.Token(nil, arguments.TokenId)
	if nil != err {
		return err
	}

	reply.TokenId = arguments.TokenId
	reply.Owner = token.Owner
	reply.IssuedAt = token.IssuedAt
	reply.Approvals = token.Approvals
	return nil
}

// Token.Owned
// -----------

// OwnedArguments - list the tokens held by one account
type OwnedArguments struct {
	Owner string `json:"owner"`
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// OwnedReply - one page of holdings
type OwnedReply struct {
	Owner string             `json:"owner"`
	Data  []registry.Holding `json:"data"`
	Next  uint64             `json:"next,string"`
}

// Owned - list tokens belonging to an account
func (t *Token) Owned(arguments *OwnedArguments, reply *OwnedReply) error {
	if err := ratelimit.LimitN(t.Limiter, arguments.Count, maximumListCount); nil != err {
		return err
	}
	t.Log.Infof("Token.Owned: %+v", arguments)

	holdings, err := registry.ListTokensFor(arguments.Owner, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Owner = arguments.Owner
	reply.Data = holdings
	if n := len(holdings); n > 0 {
		reply.Next = holdings[n-1].N + 1
	}
	return nil
}

// Token.Class
// -----------

// ClassArguments - arguments for RPC
type ClassArguments struct {
	ClassId string `json:"classId"`
}

// ClassReply - one token class
type ClassReply struct {
	ClassId      string   `json:"classId"`
	Creator      string   `json:"creator"`
	MaxCopies    uint64   `json:"maxCopies,string"`
	CopiesIssued uint64   `json:"copiesIssued,string"`
	ExpiresAt    uint64   `json:"expiresAt,string"`
	ClassDeps    []string `json:"classDeps"`
	EventDeps    []string `json:"eventDeps"`
	Reference    string   `json:"reference"`
}

// Class - fetch one token class
func (t *Token) Class(arguments *ClassArguments, reply *ClassReply) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	t.Log.Infof("Token.Class: %+v", arguments)

	class, err := registry.Class(nil, arguments.ClassId)
	if nil != err {
		return err
	}

	reply.ClassId = arguments.ClassId
	reply.Creator = class.Creator
	reply.MaxCopies = class.MaxCopies
	reply.CopiesIssued = class.CopiesIssued
	reply.ExpiresAt = class.ExpiresAt
	reply.ClassDeps = class.ClassDeps
	reply.EventDeps = class.EventDeps
	reply.Reference = class.Reference
	return nil
}

// Token.Classes
// -------------

// ClassesArguments - enumerate registered classes
type ClassesArguments struct {
	After string `json:"after"` // empty to start from the beginning
	Count int    `json:"count"`
}

// ClassesReply - one page of class identifiers
type ClassesReply struct {
	Classes []string `json:"classes"`
}

// Classes - list registered class identifiers
func (t *Token) Classes(arguments *ClassesArguments, reply *ClassesReply) error {
	if err := ratelimit.LimitN(t.Limiter, arguments.Count, maximumListCount); nil != err {
		return err
	}

	classes, err := registry.ListClasses(arguments.After, arguments.Count)
	if nil != err {
		return err
	}
	reply.Classes = classes
	return nil
}
