// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// Register - create the balance record for an account
//
// the optional authority key allows signed administrative requests on
// behalf of the new account
func Register(trx storage.Transaction, name string, parent string, authority []byte, createdAt uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	err := account.ValidateName(name)
	if nil != err {
		return err
	}

	nameKey := []byte(name)
	if trx.Has(storage.Pool.Accounts, nameKey) {
		return fault.AccountAlreadyRegistered
	}

	record := tokenrecord.Account{
		Parent:    parent,
		Authority: authority,
		CreatedAt: createdAt,
	}
	packed, err := record.Pack()
	if nil != err {
		return err
	}

	trx.Put(storage.Pool.Accounts, nameKey, packed)
	trx.PutN(storage.Pool.Balances, nameKey, 0)

	globalData.log.Infof("registered: %q", name)
	return nil
}

// Unregister - remove an account and release its balance record
//
// an account holding a positive balance can only be removed by force
// and the held amount is burned from total supply
//
// returns the amount burned
func Unregister(trx storage.Transaction, name string, force bool) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	nameKey := []byte(name)
	if !trx.Has(storage.Pool.Accounts, nameKey) {
		return 0, fault.AccountNotRegistered
	}

	balance, _ := trx.GetN(storage.Pool.Balances, nameKey)
	if balance > 0 {
		if !force {
			return 0, fault.UnregisterRequiresForce
		}
		burn(trx, balance)
		globalData.log.Warnf("unregister burned: %d from: %q", balance, name)
	}

	trx.Delete(storage.Pool.Accounts, nameKey)
	trx.Delete(storage.Pool.Balances, nameKey)

	globalData.log.Infof("unregistered: %q", name)
	return balance, nil
}

// IsRegistered - check an account has a balance record
func IsRegistered(trx storage.Transaction, name string) bool {
	if nil == trx {
		return storage.Pool.Accounts.Has([]byte(name))
	}
	return trx.Has(storage.Pool.Accounts, []byte(name))
}

// Account - fetch the registration record of an account
func Account(trx storage.Transaction, name string) (*tokenrecord.Account, error) {
	var packed []byte
	if nil == trx {
		packed = storage.Pool.Accounts.Get([]byte(name))
	} else {
		packed = trx.Get(storage.Pool.Accounts, []byte(name))
	}
	if nil == packed {
		return nil, fault.AccountNotRegistered
	}

	record, err := tokenrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	a, ok := record.(*tokenrecord.Account)
	if !ok {
		return nil, fault.NotTokenRecord
	}
	return a, nil
}
