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

// Transfer - move a token instance to a new owner
//
// the receiver must hold a balance registration, an unregistered
// account can never hold a token
//
// the caller must be the current owner or hold a transfer approval;
// when an approval id is pinned it must match the stored id exactly,
// a mismatch means the approval was re-issued after the pin was taken
//
// every ownership change clears the approval set, the number of
// entries cleared is returned for storage refund accounting
func Transfer(trx storage.Transaction, tokenId string, caller string, to string, approvalId *uint64, now uint64) (int, error) {

	// ensure synchronised ownership updates
	globalData.Lock()
	defer globalData.Unlock()

	err := account.ValidateName(to)
	if nil != err {
		return 0, err
	}
	if !ledger.IsRegistered(trx, to) {
		return 0, fault.AccountNotRegistered
	}

	token, err := Token(trx, tokenId)
	if nil != err {
		return 0, err
	}

	if to == token.Owner {
		return 0, fault.TransferToSelf
	}

	// authorisation
	if caller != token.Owner {
		id, ok := token.ApprovalFor(caller)
		if !ok {
			return 0, fault.Unauthorised
		}
		if nil != approvalId && *approvalId != id {
			return 0, fault.StaleApproval
		}
	}

	classId, _, err := tokenrecord.ParseTokenId(tokenId)
	if nil != err {
		return 0, err
	}

	class, err := Class(trx, classId)
	if nil != err {
		return 0, err
	}
	if 0 != class.ExpiresAt && now > class.ExpiresAt {
		return 0, fault.TokenExpired
	}

	err = checkEligibility(trx, to, class)
	if nil != err {
		return 0, err
	}

	previousOwner := token.Owner
	cleared := token.ClearApprovals()
	token.Owner = to

	err = storeToken(trx, tokenId, token)
	if nil != err {
		return 0, err
	}

	removeOwnership(trx, previousOwner, tokenId, classId)
	insertOwnership(trx, to, tokenId, classId)

	globalData.log.Infof("transfer: %q from: %q to: %q by: %q", tokenId, previousOwner, to, caller)
	return cleared, nil
}
