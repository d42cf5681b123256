// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// Revert - undo an optimistic token transfer
//
// used only by transfer reconciliation, so unlike Transfer it skips
// authorisation and the eligibility gate: the previous owner already
// held the token and a revert must never fail
//
// the revert is abandoned as a no-op when the token is gone or has
// been moved on by the optimistic receiver, ownership won by a later
// transfer is never clawed back
//
// the approval snapshot taken before the optimistic transfer is
// restored; the approval id counter is never wound back so ids stay
// monotonic
func Revert(trx storage.Transaction, tokenId string, optimisticOwner string, previousOwner string, approvals []tokenrecord.Approval) (bool, error) {
	globalData.Lock()
	defer globalData.Unlock()

	token, err := Token(trx, tokenId)
	if nil != err {
		// token burned or expired away while suspended
		return false, nil
	}

	if token.Owner != optimisticOwner {
		// moved on, the current owner keeps it
		return false, nil
	}

	classId, _, err := tokenrecord.ParseTokenId(tokenId)
	if nil != err {
		return false, err
	}

	token.Owner = previousOwner
	token.Approvals = approvals

	err = storeToken(trx, tokenId, token)
	if nil != err {
		return false, err
	}

	removeOwnership(trx, optimisticOwner, tokenId, classId)
	insertOwnership(trx, previousOwner, tokenId, classId)

	globalData.log.Infof("revert: %q to: %q", tokenId, previousOwner)
	return true, nil
}
