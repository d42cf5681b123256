// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admins_test

import (
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/rpc/admins"
	"github.com/keeperhq/tokend/storage"
)

const (
	databaseFileName = "admins-test"
	contractAccount  = "vault"
)

var ownerPrivateKey ed25519.PrivateKey

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("admins-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "admins-test.log",
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
	if _, err := storage.Initialise(databaseFileName, storage.ReadWrite); nil != err {
		panic(fmt.Sprintf("storage initialise failed: %s", err))
	}
	if err := ledger.Initialise(0); nil != err {
		panic(fmt.Sprintf("ledger initialise failed: %s", err))
	}
	if err := registry.Initialise(false); nil != err {
		panic(fmt.Sprintf("registry initialise failed: %s", err))
	}
	if err := eventlog.Initialise(); nil != err {
		panic(fmt.Sprintf("eventlog initialise failed: %s", err))
	}

	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if nil != err {
		panic(fmt.Sprintf("key generation failed: %s", err))
	}
	ownerPrivateKey = privateKey

	authority, err := account.NewAuthority(publicKey, true)
	if nil != err {
		panic(fmt.Sprintf("authority failed: %s", err))
	}
	if err := admin.Initialise(contractAccount, authority); nil != err {
		panic(fmt.Sprintf("admin initialise failed: %s", err))
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		panic(fmt.Sprintf("transaction begin failed: %s", err))
	}
	if err := ledger.Register(trx, contractAccount, "", publicKey, 1); nil != err {
		panic(fmt.Sprintf("register failed: %s", err))
	}
	if err := trx.Commit(); nil != err {
		panic(fmt.Sprintf("commit failed: %s", err))
	}

	rc := m.Run()

	admin.Finalise()
	eventlog.Finalise()
	registry.Finalise()
	ledger.Finalise()
	storage.Finalise()
	removeFiles()
	os.Exit(rc)
}

func normalMode(mode.Mode) bool { return true }

// sign a request the way a client would
func sign(nonce uint64, operation string, arguments ...string) string {
	message := admin.RequestMessage(nonce, operation, arguments...)
	return hex.EncodeToString(ed25519.Sign(ownerPrivateKey, message))
}

func TestNonceAndMint(t *testing.T) {
	service := admins.New(logger.New("test-admin"), normalMode)

	var nonce admins.NonceReply
	err := service.Nonce(&struct{}{}, &nonce)
	assert.Nil(t, err, "nonce failed")
	assert.Equal(t, contractAccount, nonce.ContractAccount, "wrong contract account")

	next := nonce.LastNonce + 1
	var mint admins.MintReply
	err = service.Mint(&admins.MintArguments{
		To:        contractAccount,
		Amount:    500,
		Nonce:     next,
		Signature: sign(next, admin.OpMint, contractAccount, "500"),
	}, &mint)
	assert.Nil(t, err, "mint failed")
	assert.Equal(t, uint64(500), mint.Amount, "wrong amount")

	b, _ := ledger.Balance(nil, contractAccount)
	assert.Equal(t, uint64(500), b, "wrong balance")

	// the nonce advanced
	err = service.Nonce(&struct{}{}, &nonce)
	assert.Nil(t, err, "nonce failed")
	assert.Equal(t, next, nonce.LastNonce, "nonce did not advance")

	// replay of the same signed request
	err = service.Mint(&admins.MintArguments{
		To:        contractAccount,
		Amount:    500,
		Nonce:     next,
		Signature: sign(next, admin.OpMint, contractAccount, "500"),
	}, &mint)
	assert.Equal(t, fault.StaleNonce, err, "replay accepted")
}

func TestBadSignature(t *testing.T) {
	service := admins.New(logger.New("test-admin"), normalMode)

	next := admin.LastNonce() + 1
	var mint admins.MintReply

	// not even hex
	err := service.Mint(&admins.MintArguments{
		To:        contractAccount,
		Amount:    1,
		Nonce:     next,
		Signature: "not hex",
	}, &mint)
	assert.Equal(t, fault.InvalidSignature, err, "malformed signature accepted")

	// valid hex over the wrong arguments
	err = service.Mint(&admins.MintArguments{
		To:        contractAccount,
		Amount:    9999,
		Nonce:     next,
		Signature: sign(next, admin.OpMint, contractAccount, "1"),
	}, &mint)
	assert.Equal(t, fault.InvalidSignature, err, "altered arguments accepted")
}

func TestIssueFlow(t *testing.T) {
	service := admins.New(logger.New("test-admin"), normalMode)

	next := admin.LastNonce() + 1
	var reply admins.OkReply
	err := service.RegisterClass(&admins.RegisterClassArguments{
		ClassId:   "poster",
		Reference: "ipfs://poster",
		Nonce:     next,
		Signature: sign(next, admin.OpRegisterClass, "poster", "ipfs://poster"),
	}, &reply)
	assert.Nil(t, err, "class registration failed")

	next = admin.LastNonce() + 1
	var sub admins.CreateSubAccountReply
	err = service.CreateSubAccount(&admins.CreateSubAccountArguments{
		Label:     "gallery",
		Nonce:     next,
		Signature: sign(next, admin.OpCreateSubAccount, "gallery"),
	}, &sub)
	assert.Nil(t, err, "sub-account failed")
	assert.Equal(t, "gallery."+contractAccount, sub.Account, "wrong sub-account name")

	next = admin.LastNonce() + 1
	var issue admins.IssueReply
	err = service.Issue(&admins.IssueArguments{
		ClassId:   "poster",
		Owner:     sub.Account,
		Nonce:     next,
		Signature: sign(next, admin.OpIssue, "poster", sub.Account),
	}, &issue)
	assert.Nil(t, err, "issue failed")
	assert.Equal(t, "poster.1", issue.TokenId, "wrong token id")

	owner, err := registry.OwnerOf(nil, issue.TokenId)
	assert.Nil(t, err, "owner fetch failed")
	assert.Equal(t, sub.Account, owner, "wrong owner")

	next = admin.LastNonce() + 1
	err = service.RegisterEvent(&admins.RegisterEventArguments{
		EventId:     "opening night",
		PassClasses: []string{"poster"},
		Nonce:       next,
		Signature:   sign(next, admin.OpRegisterEvent, "opening night", "poster"),
	}, &reply)
	assert.Nil(t, err, "event registration failed")
}

// every mutation must be refused outside Normal mode, before any
// signature is inspected
func TestModeGate(t *testing.T) {
	service := admins.New(logger.New("test-admin"), func(mode.Mode) bool {
		return false
	})

	var mint admins.MintReply
	err := service.Mint(&admins.MintArguments{
		To:     contractAccount,
		Amount: 1,
		Nonce:  admin.LastNonce() + 1,
	}, &mint)
	assert.Equal(t, fault.NotAvailableDuringSynchronise, err, "mint allowed")

	var unregister admins.UnregisterReply
	err = service.Unregister(&admins.UnregisterArguments{
		Account: contractAccount,
		Nonce:   admin.LastNonce() + 1,
	}, &unregister)
	assert.Equal(t, fault.NotAvailableDuringSynchronise, err, "unregister allowed")
}
