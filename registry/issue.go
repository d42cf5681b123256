// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// Issue - create the next instance of a class for an owner
//
// the owner must hold a balance registration, an unregistered
// account can never hold a token
//
// the serial is the updated issue tally so identifiers start at
// "<class>.1" and are never reused, even when instances are exhausted
func Issue(trx storage.Transaction, classId string, owner string, now uint64) (string, error) {
	globalData.Lock()
	defer globalData.Unlock()

	err := account.ValidateName(owner)
	if nil != err {
		return "", err
	}
	if !ledger.IsRegistered(trx, owner) {
		return "", fault.AccountNotRegistered
	}

	class, err := Class(trx, classId)
	if nil != err {
		return "", err
	}

	if 0 != class.ExpiresAt && now > class.ExpiresAt {
		return "", fault.TokenExpired
	}
	if 0 != class.MaxCopies && class.CopiesIssued >= class.MaxCopies {
		return "", fault.TokenExhausted
	}

	err = checkEligibility(trx, owner, class)
	if nil != err {
		return "", err
	}

	class.CopiesIssued += 1
	err = storeClass(trx, classId, class)
	if nil != err {
		return "", err
	}

	tokenId := tokenrecord.TokenId(classId, class.CopiesIssued)

	token := tokenrecord.Token{
		Owner:          owner,
		IssuedAt:       now,
		NextApprovalId: 0,
	}
	err = storeToken(trx, tokenId, &token)
	if nil != err {
		return "", err
	}

	insertOwnership(trx, owner, tokenId, classId)

	globalData.log.Infof("issued: %q to: %q", tokenId, owner)
	return tokenId, nil
}

// Token - fetch a token instance record
func Token(trx storage.Transaction, tokenId string) (*tokenrecord.Token, error) {
	var packed []byte
	if nil == trx {
		packed = storage.Pool.Tokens.Get([]byte(tokenId))
	} else {
		packed = trx.Get(storage.Pool.Tokens, []byte(tokenId))
	}
	if nil == packed {
		return nil, fault.TokenNotFound
	}

	record, err := tokenrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	token, ok := record.(*tokenrecord.Token)
	if !ok {
		return nil, fault.NotTokenRecord
	}
	return token, nil
}

// OwnerOf - find the current owner of a token
func OwnerOf(trx storage.Transaction, tokenId string) (string, error) {
	token, err := Token(trx, tokenId)
	if nil != err {
		return "", err
	}
	return token.Owner, nil
}

// internal: store an updated token record
func storeToken(trx storage.Transaction, tokenId string, token *tokenrecord.Token) error {
	packed, err := token.Pack()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Tokens, []byte(tokenId), packed)
	return nil
}
