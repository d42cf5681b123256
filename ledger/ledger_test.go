// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/storage"
)

const (
	databaseFileName = "ledger-test"
)

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("ledger-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "ledger-test.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "trace",
		},
	}
	if err := logger.Initialise(logConfig); err != nil {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}

	removeFiles()
	_, err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		panic(fmt.Sprintf("storage initialise failed: %s", err))
	}
	err = ledger.Initialise(0)
	if nil != err {
		panic(fmt.Sprintf("ledger initialise failed: %s", err))
	}

	rc := m.Run()

	ledger.Finalise()
	storage.Finalise()
	removeFiles()
	os.Exit(rc)
}

// run a mutation inside a committed transaction
func inTransaction(t *testing.T, f func(trx storage.Transaction) error) error {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	commitErr := trx.Commit()
	if nil != commitErr {
		t.Fatalf("transaction commit error: %s", commitErr)
	}
	return nil
}

func register(t *testing.T, name string) {
	err := inTransaction(t, func(trx storage.Transaction) error {
		return ledger.Register(trx, name, "", nil, 1)
	})
	if nil != err {
		t.Fatalf("register %q error: %s", name, err)
	}
}

func mint(t *testing.T, to string, amount uint64) {
	err := inTransaction(t, func(trx storage.Transaction) error {
		return ledger.Mint(trx, to, amount)
	})
	if nil != err {
		t.Fatalf("mint error: %s", err)
	}
}

func balance(t *testing.T, name string) uint64 {
	b, err := ledger.Balance(nil, name)
	if nil != err {
		t.Fatalf("balance %q error: %s", name, err)
	}
	return b
}

func TestMinimumBalance(t *testing.T) {
	assert.Equal(t, uint64(ledger.DefaultMinimumBalance), ledger.MinimumBalance(), "wrong default bound")
}

func TestRegister(t *testing.T) {

	register(t, "alice")
	defer unregisterQuietly(t, "alice")

	assert.True(t, ledger.IsRegistered(nil, "alice"), "alice missing")
	assert.Equal(t, uint64(0), balance(t, "alice"), "fresh account has balance")

	// duplicate registration must fail
	err := inTransaction(t, func(trx storage.Transaction) error {
		return ledger.Register(trx, "alice", "", nil, 2)
	})
	assert.Equal(t, fault.AccountAlreadyRegistered, err, "duplicate register allowed")

	// invalid names must fail
	err = inTransaction(t, func(trx storage.Transaction) error {
		return ledger.Register(trx, "Bad Name", "", nil, 2)
	})
	assert.Equal(t, fault.InvalidAccountName, err, "bad name accepted")

	record, err := ledger.Account(nil, "alice")
	assert.Nil(t, err, "account fetch failed")
	assert.Equal(t, uint64(1), record.CreatedAt, "wrong creation time")

	_, err = ledger.Account(nil, "nobody")
	assert.Equal(t, fault.AccountNotRegistered, err, "phantom account found")
}

func unregisterQuietly(t *testing.T, name string) {
	inTransaction(t, func(trx storage.Transaction) error {
		_, err := ledger.Unregister(trx, name, true)
		return err
	})
}

func TestMintAndTransfer(t *testing.T) {

	register(t, "alice")
	register(t, "bob")
	defer unregisterQuietly(t, "alice")
	defer unregisterQuietly(t, "bob")

	supplyBefore := ledger.TotalSupply(nil)

	mint(t, "alice", 1000)
	assert.Equal(t, uint64(1000), balance(t, "alice"), "wrong balance after mint")
	assert.Equal(t, supplyBefore+1000, ledger.TotalSupply(nil), "wrong supply after mint")

	err := inTransaction(t, func(trx storage.Transaction) error {
		return ledger.Transfer(trx, "alice", "bob", 300)
	})
	assert.Nil(t, err, "transfer failed")
	assert.Equal(t, uint64(700), balance(t, "alice"), "wrong sender balance")
	assert.Equal(t, uint64(300), balance(t, "bob"), "wrong receiver balance")

	// failed transfers must leave balances untouched
	testData := []struct {
		from     string
		to       string
		amount   uint64
		expected error
	}{
		{"alice", "bob", 0, fault.NonPositiveAmount},
		{"alice", "alice", 10, fault.TransferToSelf},
		{"alice", "bob", 100000, fault.InsufficientBalance},
		{"alice", "nobody", 10, fault.AccountNotRegistered},
		{"nobody", "bob", 10, fault.AccountNotRegistered},
	}
	for i, item := range testData {
		err := inTransaction(t, func(trx storage.Transaction) error {
			return ledger.Transfer(trx, item.from, item.to, item.amount)
		})
		if item.expected != err {
			t.Errorf("%d: transfer error: %v  expected: %v", i, err, item.expected)
		}
	}
	assert.Equal(t, uint64(700), balance(t, "alice"), "sender balance moved")
	assert.Equal(t, uint64(300), balance(t, "bob"), "receiver balance moved")

	assert.Nil(t, ledger.CheckConservation(), "conservation broken")
}

func TestUnregister(t *testing.T) {

	register(t, "carol")
	mint(t, "carol", 50)

	supplyBefore := ledger.TotalSupply(nil)

	// positive balance needs force
	err := inTransaction(t, func(trx storage.Transaction) error {
		_, err := ledger.Unregister(trx, "carol", false)
		return err
	})
	assert.Equal(t, fault.UnregisterRequiresForce, err, "unforced unregister allowed")
	assert.True(t, ledger.IsRegistered(nil, "carol"), "carol vanished")

	// forced unregister burns the holding
	var burned uint64
	err = inTransaction(t, func(trx storage.Transaction) error {
		var err error
		burned, err = ledger.Unregister(trx, "carol", true)
		return err
	})
	assert.Nil(t, err, "forced unregister failed")
	assert.Equal(t, uint64(50), burned, "wrong burn amount")
	assert.False(t, ledger.IsRegistered(nil, "carol"), "carol still registered")
	assert.Equal(t, supplyBefore-50, ledger.TotalSupply(nil), "supply not burned")

	assert.Nil(t, ledger.CheckConservation(), "conservation broken")
}
