// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/keeperhq/tokend/fault"
)

// Transaction - a batch write spanning all pools
//
// reads issued through the transaction see its own uncommitted writes
type Transaction interface {
	Abort()
	Begin() error
	Commit() error
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	GetNB(*PoolHandle, []byte) (uint64, []byte)
	Has(*PoolHandle, []byte) bool
	InUse() bool
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
}

type transactionData struct {
	sync.Mutex
	inUse  bool
	access []Access
}

func newTransaction(access []Access) Transaction {
	return &transactionData{
		inUse:  false,
		access: access,
	}
}

func (t *transactionData) Begin() error {
	t.Lock()
	defer t.Unlock()

	if t.inUse {
		return fault.TransactionAlreadyInUse
	}

	for _, a := range t.access {
		err := a.Begin()
		if nil != err {
			return err
		}
	}

	t.inUse = true
	return nil
}

func (t *transactionData) Commit() error {
	t.Lock()
	defer t.Unlock()

	for _, a := range t.access {
		err := a.Commit()
		if nil != err {
			return err
		}
	}
	t.abort()
	return nil
}

// Abort - discard all pending writes
func (t *transactionData) Abort() {
	t.Lock()
	defer t.Unlock()
	t.abort()
}

// internal: must hold lock
func (t *transactionData) abort() {
	for _, a := range t.access {
		a.Abort()
	}
	t.inUse = false
}

func (t *transactionData) InUse() bool {
	t.Lock()
	defer t.Unlock()
	return t.inUse
}

func (t *transactionData) Put(p *PoolHandle, key []byte, value []byte) {
	p.put(key, value)
}

func (t *transactionData) PutN(p *PoolHandle, key []byte, value uint64) {
	p.putN(key, value)
}

func (t *transactionData) Delete(p *PoolHandle, key []byte) {
	p.remove(key)
}

func (t *transactionData) Get(p *PoolHandle, key []byte) []byte {
	return p.Get(key)
}

func (t *transactionData) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return p.GetN(key)
}

func (t *transactionData) GetNB(p *PoolHandle, key []byte) (uint64, []byte) {
	return p.GetNB(key)
}

func (t *transactionData) Has(p *PoolHandle, key []byte) bool {
	return p.Has(key)
}
