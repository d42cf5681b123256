// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - the non-fungible token registry
//
// token classes define issuance limits, expiry and the prerequisites
// a receiver must satisfy; instances carry a single owner and a set
// of transfer approvals fenced by a monotonic approval id
package registry

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
)

// globals for background process
type registryData struct {
	sync.RWMutex

	log *logger.L

	// when set only allow-listed marketplace accounts can receive
	// transfer approvals
	enforceMarketplaces bool

	// set once during initialise
	initialised bool
}

// global data
var globalData registryData

// Initialise - setup the registry processing
func Initialise(enforceMarketplaces bool) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("registry")
	globalData.log.Info("starting…")

	globalData.enforceMarketplaces = enforceMarketplaces

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

	globalData.initialised = false
	return nil
}
