// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
)

// key for the total supply record
var supplyKey = []byte("SUPPLY")

// Balance - current balance of a registered account
func Balance(trx storage.Transaction, name string) (uint64, error) {
	var balance uint64
	var found bool
	if nil == trx {
		balance, found = storage.Pool.Balances.GetN([]byte(name))
	} else {
		balance, found = trx.GetN(storage.Pool.Balances, []byte(name))
	}
	if !found {
		return 0, fault.AccountNotRegistered
	}
	return balance, nil
}

// TotalSupply - current total fungible supply
func TotalSupply(trx storage.Transaction) uint64 {
	var supply uint64
	if nil == trx {
		supply, _ = storage.Pool.Supply.GetN(supplyKey)
	} else {
		supply, _ = trx.GetN(storage.Pool.Supply, supplyKey)
	}
	return supply
}

// Mint - create new supply credited to a registered account
func Mint(trx storage.Transaction, to string, amount uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if 0 == amount {
		return fault.NonPositiveAmount
	}

	supply, _ := trx.GetN(storage.Pool.Supply, supplyKey)
	if amount > math.MaxUint64-supply {
		return fault.SupplyOverflow
	}

	err := credit(trx, to, amount)
	if nil != err {
		return err
	}

	trx.PutN(storage.Pool.Supply, supplyKey, supply+amount)
	globalData.log.Infof("mint: %d to: %q", amount, to)
	return nil
}

// Transfer - move an amount between two registered accounts
func Transfer(trx storage.Transaction, from string, to string, amount uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if 0 == amount {
		return fault.NonPositiveAmount
	}
	if from == to {
		return fault.TransferToSelf
	}

	err := debit(trx, from, amount)
	if nil != err {
		return err
	}
	return credit(trx, to, amount)
}

// Credit - add an amount to a registered account
func Credit(trx storage.Transaction, name string, amount uint64) error {
	globalData.Lock()
	defer globalData.Unlock()
	return credit(trx, name, amount)
}

// Debit - remove an amount from a registered account
func Debit(trx storage.Transaction, name string, amount uint64) error {
	globalData.Lock()
	defer globalData.Unlock()
	return debit(trx, name, amount)
}

// Burn - remove an amount from total supply
//
// for value refunded to an account that no longer exists
func Burn(trx storage.Transaction, amount uint64) {
	globalData.Lock()
	defer globalData.Unlock()
	burn(trx, amount)
}

// internal: must hold lock
func credit(trx storage.Transaction, name string, amount uint64) error {
	balance, found := trx.GetN(storage.Pool.Balances, []byte(name))
	if !found {
		return fault.AccountNotRegistered
	}
	if amount > math.MaxUint64-balance {
		return fault.BalanceOverflow
	}
	trx.PutN(storage.Pool.Balances, []byte(name), balance+amount)
	return nil
}

// internal: must hold lock
func debit(trx storage.Transaction, name string, amount uint64) error {
	balance, found := trx.GetN(storage.Pool.Balances, []byte(name))
	if !found {
		return fault.AccountNotRegistered
	}
	if balance < amount {
		return fault.InsufficientBalance
	}
	trx.PutN(storage.Pool.Balances, []byte(name), balance-amount)
	return nil
}

// internal: must hold lock
func burn(trx storage.Transaction, amount uint64) {
	supply, _ := trx.GetN(storage.Pool.Supply, supplyKey)
	if supply < amount {
		logger.Criticalf("ledger.burn: supply: %d  burn: %d", supply, amount)
		logger.Panic("ledger.burn: supply database corrupt")
	}
	trx.PutN(storage.Pool.Supply, supplyKey, supply-amount)
	globalData.log.Infof("burn: %d", amount)
}

// CheckConservation - verify the sum of all balances equals total supply
func CheckConservation() error {
	globalData.RLock()
	defer globalData.RUnlock()

	sum := uint64(0)
	cursor := storage.Pool.Balances.NewFetchCursor()
	err := cursor.Map(func(key []byte, value []byte) error {
		if 8 != len(value) {
			return fault.NotTokenRecord
		}
		balance := binary.BigEndian.Uint64(value)
		if balance > math.MaxUint64-sum {
			return fault.SupplyOverflow
		}
		sum += balance
		return nil
	})
	if nil != err {
		return err
	}

	if sum != TotalSupply(nil) {
		return fault.SupplyMismatch
	}
	return nil
}
