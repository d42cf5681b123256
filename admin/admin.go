// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package admin - owner authenticated administrative operations
//
// every operation carries an ed25519 signature by the contract owner
// authority over a canonical request message.  The message embeds a
// strictly increasing nonce which is persisted in the same storage
// transaction as the operation itself, so a replayed request can
// never be applied twice.
//
// there is no escalation path: requests signed by any other key are
// rejected outright.
package admin

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
)

// globals for this module
type adminData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	contractAccount string
	authority       *account.Authority

	// set once during initialise
	initialised bool
}

// global data
var globalData adminData

// Initialise - set up the administrative authority
//
// the contract account is the account the owner operates as, used as
// the actor on event log entries and as the parent of sub-accounts
func Initialise(contractAccount string, authority *account.Authority) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	if err := account.ValidateName(contractAccount); nil != err {
		return err
	}
	if nil == authority {
		return fault.InvalidKeyLength
	}

	globalData.log = logger.New("admin")
	globalData.log.Info("starting…")

	globalData.contractAccount = contractAccount
	globalData.authority = authority

	// all data initialised
	globalData.initialised = true
	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// finally...
	globalData.initialised = false
	return nil
}

// ContractAccount - the account the contract owner operates as
func ContractAccount() string {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.contractAccount
}
