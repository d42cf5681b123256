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

// RegisterClass - store a new token class
//
// all prerequisite classes and events must already exist so the
// eligibility gate can never reference a dangling dependency
func RegisterClass(trx storage.Transaction, classId string, class *tokenrecord.Class) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !tokenrecord.IsValidClassId(classId) {
		return fault.InvalidTokenId
	}

	classKey := []byte(classId)
	if trx.Has(storage.Pool.Classes, classKey) {
		return fault.TokenAlreadyExists
	}

	for _, dep := range class.ClassDeps {
		if !trx.Has(storage.Pool.Classes, []byte(dep)) {
			return fault.TokenClassNotFound
		}
	}
	for _, dep := range class.EventDeps {
		if !trx.Has(storage.Pool.Events, []byte(dep)) {
			return fault.EventNotFound
		}
	}

	class.CopiesIssued = 0
	packed, err := class.Pack()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Classes, classKey, packed)

	globalData.log.Infof("class registered: %q by: %q", classId, class.Creator)
	return nil
}

// Class - fetch a token class record
func Class(trx storage.Transaction, classId string) (*tokenrecord.Class, error) {
	var packed []byte
	if nil == trx {
		packed = storage.Pool.Classes.Get([]byte(classId))
	} else {
		packed = trx.Get(storage.Pool.Classes, []byte(classId))
	}
	if nil == packed {
		return nil, fault.TokenClassNotFound
	}

	record, err := tokenrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	class, ok := record.(*tokenrecord.Class)
	if !ok {
		return nil, fault.NotTokenRecord
	}
	return class, nil
}

// internal: store an updated class record
func storeClass(trx storage.Transaction, classId string, class *tokenrecord.Class) error {
	packed, err := class.Pack()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Classes, []byte(classId), packed)
	return nil
}
