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

// RebuildOwnershipIndex - reconstruct the index database from the
// token records
//
// used after the index database was lost or found to be from an
// older version; the token pool in the data database is authoritative
// so the index can always be regenerated from it
func RebuildOwnershipIndex() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Warn("rebuilding ownership index…")

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	n := 0
	cursor := storage.Pool.Tokens.NewFetchCursor()
	err = cursor.Map(func(key []byte, value []byte) error {
		tokenId := string(key)
		classId, _, err := tokenrecord.ParseTokenId(tokenId)
		if nil != err {
			return err
		}

		record, err := tokenrecord.Packed(value).Unpack()
		if nil != err {
			return err
		}
		token, ok := record.(*tokenrecord.Token)
		if !ok {
			return fault.NotTokenRecord
		}

		insertOwnership(trx, token.Owner, tokenId, classId)
		n += 1
		return nil
	})
	if nil != err {
		trx.Abort()
		return err
	}

	err = trx.Commit()
	if nil != err {
		return err
	}

	globalData.log.Warnf("ownership index rebuilt: %d tokens", n)
	return nil
}
