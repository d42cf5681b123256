// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// CheckEligibility - verify an account satisfies the prerequisites of
// a class
//
// the gate fails closed: a dependency that cannot be resolved is
// treated as unsatisfied
func CheckEligibility(trx storage.Transaction, owner string, classId string) error {
	globalData.RLock()
	defer globalData.RUnlock()

	class, err := Class(trx, classId)
	if nil != err {
		return err
	}
	return checkEligibility(trx, owner, class)
}

// internal: lock free form for use inside other operations
func checkEligibility(trx storage.Transaction, owner string, class *tokenrecord.Class) error {

	for _, dep := range class.ClassDeps {
		if !trx.Has(storage.Pool.Classes, []byte(dep)) {
			return fault.DependencyNotSatisfied
		}
		if !OwnsInstanceOf(trx, owner, dep) {
			return fault.DependencyNotSatisfied
		}
	}

	for _, dep := range class.EventDeps {
		event, err := Event(trx, dep)
		if nil != err {
			return fault.DependencyNotSatisfied
		}
		// any one pass class will do
		satisfied := false
		for _, pass := range event.PassClasses {
			if OwnsInstanceOf(trx, owner, pass) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return fault.DependencyNotSatisfied
		}
	}

	return nil
}
