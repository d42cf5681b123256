// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the fungible balance ledger
//
// balances are held as unsigned integers in the smallest unit, total
// supply is tracked so the conservation property:
//
//   sum of all balances == total supply
//
// holds across every operation except an explicit mint or burn
package ledger

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
)

// DefaultMinimumBalance - registration bound used when the
// configuration does not set one
const DefaultMinimumBalance = 1

// globals for background process
type ledgerData struct {
	sync.RWMutex

	log *logger.L

	// smallest deposit a fresh registration must carry
	minimumBalance uint64

	// set once during initialise
	initialised bool
}

// global data
var globalData ledgerData

// Initialise - setup the ledger processing
//
// zero selects the default minimum balance
func Initialise(minimumBalance uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("ledger")
	globalData.log.Info("starting…")

	if 0 == minimumBalance {
		minimumBalance = DefaultMinimumBalance
	}
	globalData.minimumBalance = minimumBalance

	globalData.initialised = true
	return nil
}

// MinimumBalance - the registration bound
//
// both the lower and upper bound of the deposit required to register,
// identical for every account
func MinimumBalance() uint64 {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.minimumBalance
}

// Finalise - stop all background tasks
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}
