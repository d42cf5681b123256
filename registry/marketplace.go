// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/storage"
)

// ApproveMarketplace - add an account to the marketplace allow-list
//
// records the authority that performed the approval
func ApproveMarketplace(trx storage.Transaction, name string, approvedBy string) error {
	globalData.Lock()
	defer globalData.Unlock()

	err := account.ValidateName(name)
	if nil != err {
		return err
	}

	trx.Put(storage.Pool.Marketplaces, []byte(name), []byte(approvedBy))
	globalData.log.Infof("marketplace approved: %q by: %q", name, approvedBy)
	return nil
}

// RevokeMarketplace - remove an account from the allow-list
func RevokeMarketplace(trx storage.Transaction, name string) {
	globalData.Lock()
	defer globalData.Unlock()

	trx.Delete(storage.Pool.Marketplaces, []byte(name))
	globalData.log.Infof("marketplace revoked: %q", name)
}

// IsMarketplace - check an account is on the allow-list
func IsMarketplace(trx storage.Transaction, name string) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return isMarketplace(trx, name)
}

// internal: lock free form
func isMarketplace(trx storage.Transaction, name string) bool {
	if nil == trx {
		return storage.Pool.Marketplaces.Has([]byte(name))
	}
	return trx.Has(storage.Pool.Marketplaces, []byte(name))
}
