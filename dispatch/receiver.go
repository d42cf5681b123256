// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"github.com/keeperhq/tokend/fault"
)

// Receiver - execution context attached to an account
//
// hooks run on the queue worker after the optimistic state change has
// been committed, their return values drive the reconciliation
type Receiver interface {

	// ReceiveAmount - notification of a fungible transfer-and-call,
	// returns the amount actually used, the remainder is declared
	// unused and offered back to the sender
	ReceiveAmount(from string, amount uint64, memo string, budget *Budget) (uint64, error)

	// ReceiveToken - notification of a token transfer-and-call,
	// returning false rejects the token so it is returned to the
	// sender
	ReceiveToken(from string, tokenId string, memo string, budget *Budget) (bool, error)
}

// RegisterReceiver - attach an execution context to an account
func RegisterReceiver(name string, receiver Receiver) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	if _, ok := globalData.receivers[name]; ok {
		return fault.AlreadyInitialised
	}
	globalData.receivers[name] = receiver
	globalData.log.Infof("receiver registered: %q", name)
	return nil
}

// DeregisterReceiver - detach the execution context of an account
func DeregisterReceiver(name string) {
	globalData.Lock()
	defer globalData.Unlock()

	delete(globalData.receivers, name)
	globalData.log.Infof("receiver deregistered: %q", name)
}

// ReceiverFor - fetch the execution context of an account
//
// second value is false when the account has no registered receiver
func ReceiverFor(name string) (Receiver, bool) {
	globalData.RLock()
	defer globalData.RUnlock()

	receiver, ok := globalData.receivers[name]
	return receiver, ok
}
