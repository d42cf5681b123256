// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/storage"
)

// from storage/doc.go:
//
// Index database:
//   OwnerNextCount  owner                - next count for appending to owned items
//   OwnerList       owner ++ count       - token id
//   OwnerTokenIndex owner ++ token id    - count, for delete after transfer
//   OwnerClassCount owner ++ class id    - instances of the class held

const uint64ByteSize = 8

// keySeparator - account names and identifiers are variable length so
// compound keys need an out-of-alphabet separator
const keySeparator = 0x00

func compoundKey(owner string, suffix []byte) []byte {
	key := make([]byte, 0, len(owner)+1+len(suffix))
	key = append(key, owner...)
	key = append(key, keySeparator)
	return append(key, suffix...)
}

// internal: add a token to an owner's holdings, must hold lock
func insertOwnership(trx storage.Transaction, owner string, tokenId string, classId string) {

	// increment the count for owner
	nKey := []byte(owner)
	count, found := trx.GetN(storage.Pool.OwnerNextCount, nKey)
	if !found {
		count = 0
	}
	trx.PutN(storage.Pool.OwnerNextCount, nKey, count+1)

	countBytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(countBytes, count)

	// write to the owner list
	oKey := compoundKey(owner, countBytes)
	trx.Put(storage.Pool.OwnerList, oKey, []byte(tokenId))

	// write new index record
	dKey := compoundKey(owner, []byte(tokenId))
	trx.PutN(storage.Pool.OwnerTokenIndex, dKey, count)

	// bump the per class tally used by the eligibility gate
	kKey := compoundKey(owner, []byte(classId))
	held, _ := trx.GetN(storage.Pool.OwnerClassCount, kKey)
	trx.PutN(storage.Pool.OwnerClassCount, kKey, held+1)
}

// internal: remove a token from an owner's holdings, must hold lock
//
// the freed slot in the owner list is left as a hole, enumeration
// skips it naturally
func removeOwnership(trx storage.Transaction, owner string, tokenId string, classId string) {

	dKey := compoundKey(owner, []byte(tokenId))
	count, found := trx.GetN(storage.Pool.OwnerTokenIndex, dKey)
	if !found {
		globalData.log.Criticalf("removeOwnership: owner: %q  token: %q", owner, tokenId)
		logger.Panic("registry.removeOwnership: OwnerTokenIndex database corrupt")
	}

	countBytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(countBytes, count)

	trx.Delete(storage.Pool.OwnerList, compoundKey(owner, countBytes))
	trx.Delete(storage.Pool.OwnerTokenIndex, dKey)

	kKey := compoundKey(owner, []byte(classId))
	held, _ := trx.GetN(storage.Pool.OwnerClassCount, kKey)
	if held <= 1 {
		trx.Delete(storage.Pool.OwnerClassCount, kKey)
	} else {
		trx.PutN(storage.Pool.OwnerClassCount, kKey, held-1)
	}
}

// OwnsInstanceOf - check an account holds at least one instance of a class
func OwnsInstanceOf(trx storage.Transaction, owner string, classId string) bool {
	kKey := compoundKey(owner, []byte(classId))
	var held uint64
	if nil == trx {
		held, _ = storage.Pool.OwnerClassCount.GetN(kKey)
	} else {
		held, _ = trx.GetN(storage.Pool.OwnerClassCount, kKey)
	}
	return held > 0
}
