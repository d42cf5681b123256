// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package admins - owner authenticated administrative RPC service
//
// requests are signed client side over the canonical admin request
// message, the service only relays the nonce and signature; the
// private authority key never reaches the daemon
package admins

import (
	"encoding/hex"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/rpc/ratelimit"
	"github.com/keeperhq/tokend/tokenrecord"
)

const (
	rateLimitAdmin = 50
	rateBurstAdmin = 25
)

// Admin - type for the RPC
type Admin struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the admin service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Admin {
	return &Admin{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitAdmin, rateBurstAdmin),
		IsNormalMode: isNormalMode,
	}
}

// common guards for every mutating request
func (a *Admin) guard() error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	if !a.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}
	return nil
}

func decodeSignature(s string) ([]byte, error) {
	signature, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.InvalidSignature
	}
	return signature, nil
}

// Admin.Nonce
// -----------

// NonceReply - state a client needs to build the next signed request
type NonceReply struct {
	LastNonce       uint64 `json:"lastNonce,string"`
	ContractAccount string `json:"contractAccount"`
}

// Nonce - the most recently accepted request nonce
func (a *Admin) Nonce(arguments *struct{}, reply *NonceReply) error {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	reply.LastNonce = admin.LastNonce()
	reply.ContractAccount = admin.ContractAccount()
	return nil
}

// Admin.Mint
// ----------

// MintArguments - arguments for RPC
type MintArguments struct {
	To        string `json:"to"`
	Amount    uint64 `json:"amount,string"`
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// MintReply - result of the mint
type MintReply struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount,string"`
}

// Mint - create new supply on an account
func (a *Admin) Mint(arguments *MintArguments, reply *MintReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.Mint: to: %q amount: %d nonce: %d", arguments.To, arguments.Amount, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.Mint(arguments.To, arguments.Amount, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.To = arguments.To
	reply.Amount = arguments.Amount
	return nil
}

// Admin.SetMetadata
// -----------------

// SetMetadataArguments - arguments for RPC
type SetMetadataArguments struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Decimals  uint64 `json:"decimals,string"`
	Reference string `json:"reference"`
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// OkReply - bare acknowledgement
type OkReply struct {
	Ok bool `json:"ok"`
}

// SetMetadata - store the contract level metadata
func (a *Admin) SetMetadata(arguments *SetMetadataArguments, reply *OkReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.SetMetadata: symbol: %q nonce: %d", arguments.Symbol, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.SetMetadata(&tokenrecord.Metadata{
		Name:      arguments.Name,
		Symbol:    arguments.Symbol,
		Decimals:  arguments.Decimals,
		Reference: arguments.Reference,
	}, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Admin.RegisterClass
// -------------------

// RegisterClassArguments - arguments for RPC
type RegisterClassArguments struct {
	ClassId   string   `json:"classId"`
	MaxCopies uint64   `json:"maxCopies,string"`
	ExpiresAt uint64   `json:"expiresAt,string"`
	ClassDeps []string `json:"classDeps"`
	EventDeps []string `json:"eventDeps"`
	Reference string   `json:"reference"`
	Nonce     uint64   `json:"nonce,string"`
	Signature string   `json:"signature"` // hex
}

// RegisterClass - register a new token class
func (a *Admin) RegisterClass(arguments *RegisterClassArguments, reply *OkReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.RegisterClass: %q nonce: %d", arguments.ClassId, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.RegisterClass(arguments.ClassId, &tokenrecord.Class{
		MaxCopies: arguments.MaxCopies,
		ExpiresAt: arguments.ExpiresAt,
		ClassDeps: arguments.ClassDeps,
		EventDeps: arguments.EventDeps,
		Reference: arguments.Reference,
	}, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Admin.RegisterEvent
// -------------------

// RegisterEventArguments - arguments for RPC
type RegisterEventArguments struct {
	EventId     string   `json:"eventId"`
	PassClasses []string `json:"passClasses"`
	StartsAt    uint64   `json:"startsAt,string"`
	EndsAt      uint64   `json:"endsAt,string"`
	Nonce       uint64   `json:"nonce,string"`
	Signature   string   `json:"signature"` // hex
}

// RegisterEvent - register a new event with its pass classes
func (a *Admin) RegisterEvent(arguments *RegisterEventArguments, reply *OkReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.RegisterEvent: %q nonce: %d", arguments.EventId, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.RegisterEvent(arguments.EventId, &tokenrecord.Event{
		PassClasses: arguments.PassClasses,
		StartsAt:    arguments.StartsAt,
		EndsAt:      arguments.EndsAt,
	}, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Admin.Issue
// -----------

// IssueArguments - arguments for RPC
type IssueArguments struct {
	ClassId   string `json:"classId"`
	Owner     string `json:"owner"`
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// IssueReply - identifier of the new instance
type IssueReply struct {
	TokenId string `json:"tokenId"`
	Owner   string `json:"owner"`
}

// Issue - issue the next instance of a class to an owner
func (a *Admin) Issue(arguments *IssueArguments, reply *IssueReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.Issue: %q to: %q nonce: %d", arguments.ClassId, arguments.Owner, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	tokenId, err := admin.Issue(arguments.ClassId, arguments.Owner, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.TokenId = tokenId
	reply.Owner = arguments.Owner
	return nil
}

// Admin.ApproveMarketplace / Admin.RevokeMarketplace
// --------------------------------------------------

// MarketplaceArguments - arguments for RPC
type MarketplaceArguments struct {
	Name      string `json:"name"`
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// ApproveMarketplace - add an account to the marketplace allow-list
func (a *Admin) ApproveMarketplace(arguments *MarketplaceArguments, reply *OkReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.ApproveMarketplace: %q nonce: %d", arguments.Name, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.ApproveMarketplace(arguments.Name, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// RevokeMarketplace - remove an account from the marketplace
// allow-list
func (a *Admin) RevokeMarketplace(arguments *MarketplaceArguments, reply *OkReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.RevokeMarketplace: %q nonce: %d", arguments.Name, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	err = admin.RevokeMarketplace(arguments.Name, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Admin.CreateSubAccount
// ----------------------

// CreateSubAccountArguments - arguments for RPC
//
// the optional authority is the base58 form produced by the setup
// command, it lets the new account sign its own requests later
type CreateSubAccountArguments struct {
	Label     string `json:"label"`
	Authority string `json:"authority,omitempty"` // base58
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// CreateSubAccountReply - full name of the new account
type CreateSubAccountReply struct {
	Account string `json:"account"`
}

// CreateSubAccount - register a sub-account of the contract account
func (a *Admin) CreateSubAccount(arguments *CreateSubAccountArguments, reply *CreateSubAccountReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.CreateSubAccount: %q nonce: %d", arguments.Label, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}

	var userAuthority []byte
	if "" != arguments.Authority {
		authority, err := account.AuthorityFromBase58(arguments.Authority)
		if nil != err {
			return err
		}
		userAuthority = authority.Bytes()
	}

	name, err := admin.CreateSubAccount(arguments.Label, userAuthority, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Account = name
	return nil
}

// Admin.Unregister
// ----------------

// UnregisterArguments - arguments for RPC
type UnregisterArguments struct {
	Account   string `json:"account"`
	Force     bool   `json:"force"`
	Nonce     uint64 `json:"nonce,string"`
	Signature string `json:"signature"` // hex
}

// UnregisterReply - amount burned by a forced removal
type UnregisterReply struct {
	Account string `json:"account"`
	Burned  uint64 `json:"burned,string"`
}

// Unregister - remove an account
func (a *Admin) Unregister(arguments *UnregisterArguments, reply *UnregisterReply) error {
	if err := a.guard(); nil != err {
		return err
	}
	a.Log.Infof("Admin.Unregister: %q force: %v nonce: %d", arguments.Account, arguments.Force, arguments.Nonce)

	signature, err := decodeSignature(arguments.Signature)
	if nil != err {
		return err
	}
	burned, err := admin.Unregister(arguments.Account, arguments.Force, arguments.Nonce, signature)
	if nil != err {
		return err
	}
	reply.Account = arguments.Account
	reply.Burned = burned
	return nil
}
