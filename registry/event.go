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

// RegisterEvent - store a new event
//
// every pass class must already exist: holding an instance of any
// one of them proves participation in the event
func RegisterEvent(trx storage.Transaction, eventId string, event *tokenrecord.Event) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !tokenrecord.IsValidClassId(eventId) {
		return fault.InvalidTokenId
	}

	eventKey := []byte(eventId)
	if trx.Has(storage.Pool.Events, eventKey) {
		return fault.EventAlreadyExists
	}

	for _, pass := range event.PassClasses {
		if !trx.Has(storage.Pool.Classes, []byte(pass)) {
			return fault.TokenClassNotFound
		}
	}

	packed, err := event.Pack()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Events, eventKey, packed)

	globalData.log.Infof("event registered: %q by: %q", eventId, event.Organiser)
	return nil
}

// Event - fetch an event record
func Event(trx storage.Transaction, eventId string) (*tokenrecord.Event, error) {
	var packed []byte
	if nil == trx {
		packed = storage.Pool.Events.Get([]byte(eventId))
	} else {
		packed = trx.Get(storage.Pool.Events, []byte(eventId))
	}
	if nil == packed {
		return nil, fault.EventNotFound
	}

	record, err := tokenrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	event, ok := record.(*tokenrecord.Event)
	if !ok {
		return nil, fault.NotTokenRecord
	}
	return event, nil
}
