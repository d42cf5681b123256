// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/ed25519"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

const (
	databaseFileName = "admin-test"
	contractAccount  = "festival"
)

// owner signing key for the whole suite
var ownerPrivateKey ed25519.PrivateKey

// a second key that must never be accepted
var intruderPrivateKey ed25519.PrivateKey

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("admin-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "admin-test.log",
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

	_, intruderPrivateKey, err = ed25519.GenerateKey(nil)
	if nil != err {
		panic(fmt.Sprintf("key generation failed: %s", err))
	}

	authority, err := account.NewAuthority(publicKey, true)
	if nil != err {
		panic(fmt.Sprintf("authority failed: %s", err))
	}
	if err := admin.Initialise(contractAccount, authority); nil != err {
		panic(fmt.Sprintf("admin initialise failed: %s", err))
	}

	// the contract account itself must exist for minting
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

// sign a request with the owner key
func sign(nonce uint64, operation string, arguments ...string) []byte {
	message := admin.RequestMessage(nonce, operation, arguments...)
	return ed25519.Sign(ownerPrivateKey, message)
}

func nextNonce() uint64 {
	return admin.LastNonce() + 1
}

func TestMintRequiresOwnerSignature(t *testing.T) {
	nonce := nextNonce()

	// a signature from the wrong key
	message := admin.RequestMessage(nonce, admin.OpMint, contractAccount, "1000")
	forged := ed25519.Sign(intruderPrivateKey, message)
	err := admin.Mint(contractAccount, 1000, nonce, forged)
	assert.Equal(t, fault.InvalidSignature, err, "forged signature accepted")

	// a valid signature over different arguments
	err = admin.Mint(contractAccount, 9999, nonce, sign(nonce, admin.OpMint, contractAccount, "1000"))
	assert.Equal(t, fault.InvalidSignature, err, "altered arguments accepted")

	b, _ := ledger.Balance(nil, contractAccount)
	assert.Equal(t, uint64(0), b, "balance moved")

	// the genuine request
	err = admin.Mint(contractAccount, 1000, nonce, sign(nonce, admin.OpMint, contractAccount, "1000"))
	assert.Nil(t, err, "mint failed")

	b, _ = ledger.Balance(nil, contractAccount)
	assert.Equal(t, uint64(1000), b, "wrong balance")
}

func TestNonceFencing(t *testing.T) {
	nonce := nextNonce()
	signature := sign(nonce, admin.OpMint, contractAccount, "50")

	err := admin.Mint(contractAccount, 50, nonce, signature)
	assert.Nil(t, err, "mint failed")

	// exact replay
	err = admin.Mint(contractAccount, 50, nonce, signature)
	assert.Equal(t, fault.StaleNonce, err, "replay accepted")

	// the nonce only advances when the operation commits
	failedNonce := nextNonce()
	err = admin.Mint("never-registered", 50, failedNonce,
		sign(failedNonce, admin.OpMint, "never-registered", "50"))
	assert.Equal(t, fault.AccountNotRegistered, err, "mint to missing account")
	assert.Equal(t, failedNonce-1, admin.LastNonce(), "nonce advanced on abort")
}

func TestClassIssueAndEvent(t *testing.T) {
	nonce := nextNonce()
	err := admin.RegisterClass("backstage pass", &tokenrecord.Class{
		MaxCopies: 2,
		Reference: "https://example.com/backstage",
	}, nonce, sign(nonce, admin.OpRegisterClass, "backstage pass", "https://example.com/backstage"))
	assert.Nil(t, err, "class registration failed")

	class, err := registry.Class(nil, "backstage pass")
	assert.Nil(t, err, "class fetch failed")
	assert.Equal(t, contractAccount, class.Creator, "creator not forced to owner")

	// the receiving account must already hold a registration
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "transaction begin failed")
	assert.Nil(t, ledger.Register(trx, "roadie", "", nil, 1), "register failed")
	assert.Nil(t, trx.Commit(), "commit failed")

	nonce = nextNonce()
	tokenId, err := admin.Issue("backstage pass", "roadie", nonce,
		sign(nonce, admin.OpIssue, "backstage pass", "roadie"))
	assert.Nil(t, err, "issue failed")
	assert.Equal(t, "backstage pass.1", tokenId, "wrong token id")

	owner, err := registry.OwnerOf(nil, tokenId)
	assert.Nil(t, err, "owner fetch failed")
	assert.Equal(t, "roadie", owner, "wrong owner")

	nonce = nextNonce()
	err = admin.RegisterEvent("summer tour", &tokenrecord.Event{
		PassClasses: []string{"backstage pass"},
		StartsAt:    1750000000,
		EndsAt:      1750086400,
	}, nonce, sign(nonce, admin.OpRegisterEvent, "summer tour", "backstage pass"))
	assert.Nil(t, err, "event registration failed")
}

func TestSubAccountAndMetadata(t *testing.T) {
	nonce := nextNonce()
	name, err := admin.CreateSubAccount("alice", nil, nonce,
		sign(nonce, admin.OpCreateSubAccount, "alice"))
	assert.Nil(t, err, "sub-account failed")
	assert.Equal(t, "alice."+contractAccount, name, "wrong sub-account name")
	assert.True(t, ledger.IsRegistered(nil, name), "sub-account not registered")

	nonce = nextNonce()
	err = admin.SetMetadata(&tokenrecord.Metadata{
		Name:     "Festival Credits",
		Symbol:   "FEST",
		Decimals: 2,
	}, nonce, sign(nonce, admin.OpSetMetadata, "Festival Credits", "FEST", "2", ""))
	assert.Nil(t, err, "metadata failed")

	metadata, err := ledger.Metadata(nil)
	assert.Nil(t, err, "metadata fetch failed")
	assert.Equal(t, "FEST", metadata.Symbol, "wrong symbol")
}

func TestMarketplaceAdministration(t *testing.T) {
	nonce := nextNonce()
	err := admin.ApproveMarketplace("bazaar", nonce,
		sign(nonce, admin.OpApproveMarketplace, "bazaar"))
	assert.Nil(t, err, "approve failed")
	assert.True(t, registry.IsMarketplace(nil, "bazaar"), "marketplace missing")

	nonce = nextNonce()
	err = admin.RevokeMarketplace("bazaar", nonce,
		sign(nonce, admin.OpRevokeMarketplace, "bazaar"))
	assert.Nil(t, err, "revoke failed")
	assert.False(t, registry.IsMarketplace(nil, "bazaar"), "marketplace not removed")
}
