// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokenrecord

import (
	"unicode/utf8"

	"golang.org/x/crypto/ed25519"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/util"
)

// Pack Account
//
// Pack Varint64(tag) followed by fields in order as struct above
func (record *Account) Pack() (Packed, error) {
	if "" != record.Parent && !account.IsValidName(record.Parent) {
		return nil, fault.InvalidAccountName
	}
	if 0 != len(record.Authority) && ed25519.PublicKeySize != len(record.Authority) {
		return nil, fault.InvalidKeyLength
	}

	message := util.ToVarint64(uint64(AccountTag))
	message = appendString(message, record.Parent)
	message = appendBytes(message, record.Authority)
	message = appendUint64(message, record.CreatedAt)
	return message, nil
}

// Pack Class
//
// Pack Varint64(tag) followed by fields in order as struct above
func (record *Class) Pack() (Packed, error) {
	if !account.IsValidName(record.Creator) {
		return nil, fault.InvalidAccountName
	}
	if utf8.RuneCountInString(record.Reference) > maxReferenceLength {
		return nil, fault.InvalidItem
	}
	if len(record.ClassDeps) > maxDependencies || len(record.EventDeps) > maxDependencies {
		return nil, fault.InvalidItem
	}
	for _, dep := range record.ClassDeps {
		if !IsValidClassId(dep) {
			return nil, fault.InvalidTokenId
		}
	}

	message := util.ToVarint64(uint64(ClassTag))
	message = appendString(message, record.Creator)
	message = appendUint64(message, record.MaxCopies)
	message = appendUint64(message, record.CopiesIssued)
	message = appendUint64(message, record.ExpiresAt)
	message = appendStringList(message, record.ClassDeps)
	message = appendStringList(message, record.EventDeps)
	message = appendString(message, record.Reference)
	return message, nil
}

// Pack Token
//
// Pack Varint64(tag) followed by fields in order as struct above
// with the approval list last
func (record *Token) Pack() (Packed, error) {
	if !account.IsValidName(record.Owner) {
		return nil, fault.InvalidAccountName
	}
	if len(record.Approvals) > maxApprovals {
		return nil, fault.InvalidItem
	}

	message := util.ToVarint64(uint64(TokenTag))
	message = appendString(message, record.Owner)
	message = appendUint64(message, record.IssuedAt)
	message = appendUint64(message, record.NextApprovalId)
	message = appendUint64(message, uint64(len(record.Approvals)))
	for _, a := range record.Approvals {
		if !account.IsValidName(a.Account) {
			return nil, fault.InvalidAccountName
		}
		message = appendString(message, a.Account)
		message = appendUint64(message, a.Id)
	}
	return message, nil
}

// Pack Event
//
// Pack Varint64(tag) followed by fields in order as struct above
func (record *Event) Pack() (Packed, error) {
	if !account.IsValidName(record.Organiser) {
		return nil, fault.InvalidAccountName
	}
	if 0 == len(record.PassClasses) || len(record.PassClasses) > maxDependencies {
		return nil, fault.InvalidItem
	}
	for _, pass := range record.PassClasses {
		if !IsValidClassId(pass) {
			return nil, fault.InvalidTokenId
		}
	}

	message := util.ToVarint64(uint64(EventTag))
	message = appendString(message, record.Organiser)
	message = appendStringList(message, record.PassClasses)
	message = appendUint64(message, record.StartsAt)
	message = appendUint64(message, record.EndsAt)
	return message, nil
}

// Pack Metadata
//
// Pack Varint64(tag) followed by fields in order as struct above
func (record *Metadata) Pack() (Packed, error) {
	if utf8.RuneCountInString(record.Name) > maxNameLength {
		return nil, fault.InvalidItem
	}
	if utf8.RuneCountInString(record.Symbol) > maxSymbolLength {
		return nil, fault.InvalidItem
	}
	if utf8.RuneCountInString(record.Reference) > maxReferenceLength {
		return nil, fault.InvalidItem
	}

	message := util.ToVarint64(uint64(MetadataTag))
	message = appendString(message, record.Name)
	message = appendString(message, record.Symbol)
	message = appendUint64(message, record.Decimals)
	message = appendString(message, record.Reference)
	return message, nil
}

// append a single uint64 as Varint64
func appendUint64(buffer Packed, value uint64) Packed {
	valueBytes := util.ToVarint64(value)
	buffer = append(buffer, valueBytes...)
	return buffer
}

// append a counted byte block
func appendBytes(buffer Packed, data []byte) Packed {
	length := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, length...)
	buffer = append(buffer, data...)
	return buffer
}

// append a counted string
func appendString(buffer Packed, s string) Packed {
	return appendBytes(buffer, []byte(s))
}

// append a counted list of counted strings
func appendStringList(buffer Packed, list []string) Packed {
	buffer = appendUint64(buffer, uint64(len(list)))
	for _, s := range list {
		buffer = appendString(buffer, s)
	}
	return buffer
}
