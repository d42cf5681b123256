// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// key for the contract metadata record
var metadataKey = []byte("METADATA")

// SetMetadata - store the contract level metadata
func SetMetadata(trx storage.Transaction, metadata *tokenrecord.Metadata) error {
	globalData.Lock()
	defer globalData.Unlock()

	packed, err := metadata.Pack()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Metadata, metadataKey, packed)
	return nil
}

// Metadata - fetch the contract level metadata
func Metadata(trx storage.Transaction) (*tokenrecord.Metadata, error) {
	var packed []byte
	if nil == trx {
		packed = storage.Pool.Metadata.Get(metadataKey)
	} else {
		packed = trx.Get(storage.Pool.Metadata, metadataKey)
	}
	if nil == packed {
		return nil, fault.InvalidItem
	}

	record, err := tokenrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	m, ok := record.(*tokenrecord.Metadata)
	if !ok {
		return nil, fault.NotTokenRecord
	}
	return m, nil
}
