// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"bytes"
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/storage"
)

// Holding - one entry in an owner's list of tokens
type Holding struct {
	N       uint64 `json:"n,string"`
	TokenId string `json:"tokenId"`
}

// ListTokensFor - fetch a page of tokens held by an owner
//
// start is the list position to resume from, the N of the last entry
// of the previous page plus one
func ListTokensFor(owner string, start uint64, count int) ([]Holding, error) {

	startBytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(startBytes, start)

	ownerPrefix := compoundKey(owner, nil)
	seekKey := compoundKey(owner, startBytes)

	cursor := storage.Pool.OwnerList.NewFetchCursor().Seek(seekKey)

	// owner ++ count -> token id
	items, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	records := make([]Holding, 0, len(items))

loop:
	for _, item := range items {
		n := len(item.Key)
		split := n - uint64ByteSize
		if split <= 0 {
			logger.Panicf("split cannot be <= 0: %d", split)
		}
		if !bytes.Equal(ownerPrefix, item.Key[:split]) {
			break loop
		}

		records = append(records, Holding{
			N:       binary.BigEndian.Uint64(item.Key[split:]),
			TokenId: string(item.Value),
		})
	}

	return records, nil
}

// CountTokensFor - total tokens currently held by an owner
func CountTokensFor(owner string) uint64 {

	ownerPrefix := compoundKey(owner, nil)
	cursor := storage.Pool.OwnerList.NewFetchCursor().Seek(ownerPrefix)

	total := uint64(0)
	cursor.Map(func(key []byte, value []byte) error {
		if !bytes.HasPrefix(key, ownerPrefix) {
			return errStopIteration
		}
		total += 1
		return nil
	})
	return total
}

// ListClasses - fetch a page of registered class identifiers
func ListClasses(after string, count int) ([]string, error) {

	cursor := storage.Pool.Classes.NewFetchCursor()
	if "" != after {
		cursor.Seek(append([]byte(after), 0x00))
	}

	items, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	classIds := make([]string, 0, len(items))
	for _, item := range items {
		classIds = append(classIds, string(item.Key))
	}
	return classIds, nil
}

// internal sentinel to stop a cursor map early
var errStopIteration = stopIteration{}

type stopIteration struct{}

func (stopIteration) Error() string { return "stop iteration" }
