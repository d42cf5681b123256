// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/util"
)

// key for the persisted request nonce
var nonceKey = []byte("NONCE")

// fixed prefix so request messages cannot collide with any other
// signed material
var messagePrefix = []byte("tokend.admin")

// RequestMessage - the canonical byte form of an administrative
// request
//
// this is the exact message the contract owner signs: the fixed
// prefix, the nonce, the operation name and each argument, all
// length or varint delimited
func RequestMessage(nonce uint64, operation string, arguments ...string) []byte {
	message := append([]byte{}, messagePrefix...)
	message = append(message, util.ToVarint64(nonce)...)
	message = appendCounted(message, operation)
	for _, argument := range arguments {
		message = appendCounted(message, argument)
	}
	return message
}

func appendCounted(buffer []byte, s string) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

// verify the owner signature over a request and fence its nonce
//
// the nonce must be strictly greater than the last accepted one; the
// new value is written through the supplied transaction so it only
// advances if the operation itself commits
func verifyRequest(trx storage.Transaction, nonce uint64, signature []byte, operation string, arguments ...string) error {
	message := RequestMessage(nonce, operation, arguments...)
	if err := globalData.authority.CheckSignature(message, signature); nil != err {
		return err
	}

	last := uint64(0)
	if stored := trx.Get(storage.Pool.Metadata, nonceKey); nil != stored {
		if 8 != len(stored) {
			globalData.log.Criticalf("verifyRequest: corrupt nonce record length: %d", len(stored))
			logger.Panic("admin.verifyRequest: nonce record database corrupt")
		}
		last = binary.BigEndian.Uint64(stored)
	}
	if nonce <= last {
		return fault.StaleNonce
	}

	trx.PutN(storage.Pool.Metadata, nonceKey, nonce)
	return nil
}

// LastNonce - the most recently accepted request nonce
func LastNonce() uint64 {
	if stored := storage.Pool.Metadata.Get(nonceKey); 8 == len(stored) {
		return binary.BigEndian.Uint64(stored)
	}
	return 0
}
