// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokenrecord

// TagType - type code for stored records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	AccountTag  = TagType(iota) // registered balance holder
	ClassTag    = TagType(iota) // token class
	TokenTag    = TagType(iota) // token instance with its approvals
	EventTag    = TagType(iota) // registered event
	MetadataTag = TagType(iota) // contract metadata

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Record - generic record interface
type Record interface {
	Pack() (Packed, error)
}

// byte sizes for various fields
const (
	maxReferenceLength = 2048
	maxNameLength      = 64
	maxSymbolLength    = 16
	maxDependencies    = 16
	maxApprovals       = 64
)

// Account - a registered balance holder
//
// the authority key, when present, may sign administrative requests
// made on behalf of this account
type Account struct {
	Parent    string `json:"parent"`    // empty for a top level account
	Authority []byte `json:"authority"` // optional ed25519 public key
	CreatedAt uint64 `json:"createdAt,string"`
}

// Class - a token class from which instances are issued
type Class struct {
	Creator      string   `json:"creator"`
	MaxCopies    uint64   `json:"maxCopies,string"` // zero means unlimited
	CopiesIssued uint64   `json:"copiesIssued,string"`
	ExpiresAt    uint64   `json:"expiresAt,string"` // unix seconds, zero means never
	ClassDeps    []string `json:"classDeps"`        // receiver must hold an instance of each
	EventDeps    []string `json:"eventDeps"`        // receiver must hold a pass for each
	Reference    string   `json:"reference"`        // off-ledger metadata URI
}

// Approval - one transfer authorisation on a token instance
type Approval struct {
	Account string `json:"account"`
	Id      uint64 `json:"id,string"`
}

// Token - a single token instance
//
// approval ids are issued from NextApprovalId which only ever
// increases, so a stale approval can never be replayed after the
// approval set is cleared by an ownership change
type Token struct {
	Owner          string     `json:"owner"`
	IssuedAt       uint64     `json:"issuedAt,string"`
	NextApprovalId uint64     `json:"nextApprovalId,string"`
	Approvals      []Approval `json:"approvals"`
}

// Event - a registered event
//
// holding an instance of any one of the pass classes proves
// participation
type Event struct {
	Organiser   string   `json:"organiser"`
	PassClasses []string `json:"passClasses"`
	StartsAt    uint64   `json:"startsAt,string"`
	EndsAt      uint64   `json:"endsAt,string"`
}

// Metadata - contract level metadata for the fungible ledger
type Metadata struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Decimals  uint64 `json:"decimals,string"`
	Reference string `json:"reference"`
}

// ApprovalFor - find the approval entry for an account
//
// second value is false if no approval exists
func (token *Token) ApprovalFor(account string) (uint64, bool) {
	for _, a := range token.Approvals {
		if a.Account == account {
			return a.Id, true
		}
	}
	return 0, false
}

// SetApproval - add or replace the approval entry for an account
// using the next approval id
//
// returns the id issued
func (token *Token) SetApproval(account string) uint64 {
	id := token.NextApprovalId
	token.NextApprovalId += 1
	for i, a := range token.Approvals {
		if a.Account == account {
			token.Approvals[i].Id = id
			return id
		}
	}
	token.Approvals = append(token.Approvals, Approval{
		Account: account,
		Id:      id,
	})
	return id
}

// RevokeApproval - remove the approval entry for an account
//
// returns false if no entry existed
func (token *Token) RevokeApproval(account string) bool {
	for i, a := range token.Approvals {
		if a.Account == account {
			token.Approvals = append(token.Approvals[:i], token.Approvals[i+1:]...)
			return true
		}
	}
	return false
}

// ClearApprovals - drop all approvals, returning the number cleared
//
// the approval id counter is retained so later approvals still fence
// out any stale ids
func (token *Token) ClearApprovals() int {
	n := len(token.Approvals)
	token.Approvals = nil
	return n
}
