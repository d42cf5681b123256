// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
)

// Approve - grant transfer approval on a token to another account
//
// re-approving the same account replaces its entry with a fresh id so
// a pinned older id can no longer be used
func Approve(trx storage.Transaction, tokenId string, caller string, grantee string) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	token, err := Token(trx, tokenId)
	if nil != err {
		return 0, err
	}

	if caller != token.Owner {
		return 0, fault.NotTokenOwner
	}
	if grantee == token.Owner {
		return 0, fault.InvalidItem
	}

	if globalData.enforceMarketplaces && !isMarketplace(trx, grantee) {
		return 0, fault.MarketplaceNotApproved
	}

	id := token.SetApproval(grantee)
	err = storeToken(trx, tokenId, token)
	if nil != err {
		return 0, err
	}

	globalData.log.Infof("approve: %q on: %q id: %d", grantee, tokenId, id)
	return id, nil
}

// Revoke - remove a single transfer approval
//
// returns true if an entry was removed, revoking an absent grantee is
// not an error
func Revoke(trx storage.Transaction, tokenId string, caller string, grantee string) (bool, error) {
	globalData.Lock()
	defer globalData.Unlock()

	token, err := Token(trx, tokenId)
	if nil != err {
		return false, err
	}

	if caller != token.Owner {
		return false, fault.NotTokenOwner
	}

	removed := token.RevokeApproval(grantee)
	if removed {
		err = storeToken(trx, tokenId, token)
		if nil != err {
			return false, err
		}
	}
	return removed, nil
}

// RevokeAll - remove every transfer approval on a token
//
// the number of entries cleared is returned for storage refund
// accounting
func RevokeAll(trx storage.Transaction, tokenId string, caller string) (int, error) {
	globalData.Lock()
	defer globalData.Unlock()

	token, err := Token(trx, tokenId)
	if nil != err {
		return 0, err
	}

	if caller != token.Owner {
		return 0, fault.NotTokenOwner
	}

	cleared := token.ClearApprovals()
	if cleared > 0 {
		err = storeToken(trx, tokenId, token)
		if nil != err {
			return 0, err
		}
	}
	return cleared, nil
}

// IsApproved - check an account holds a transfer approval on a token
//
// when an approval id is supplied it must also match
func IsApproved(trx storage.Transaction, tokenId string, grantee string, approvalId *uint64) (bool, error) {
	token, err := Token(trx, tokenId)
	if nil != err {
		return false, err
	}

	id, ok := token.ApprovalFor(grantee)
	if !ok {
		return false, nil
	}
	if nil != approvalId && *approvalId != id {
		return false, nil
	}
	return true, nil
}
