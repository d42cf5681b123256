// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

const (
	databaseFileName = "registry-test"
)

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("registry-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "registry-test.log",
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
	err = registry.Initialise(false)
	if nil != err {
		panic(fmt.Sprintf("registry initialise failed: %s", err))
	}

	// token holders must carry a balance registration
	trx, err := storage.NewDBTransaction()
	if nil != err {
		panic(fmt.Sprintf("transaction begin failed: %s", err))
	}
	for _, name := range []string{"alice", "bob", "carol", "dave", "erin", "frank"} {
		if err := ledger.Register(trx, name, "", nil, 1); nil != err {
			panic(fmt.Sprintf("register %q failed: %s", name, err))
		}
	}
	if err := trx.Commit(); nil != err {
		panic(fmt.Sprintf("commit failed: %s", err))
	}

	rc := m.Run()

	registry.Finalise()
	ledger.Finalise()
	storage.Finalise()
	removeFiles()
	os.Exit(rc)
}

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

func registerClass(t *testing.T, classId string, class tokenrecord.Class) {
	err := inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterClass(trx, classId, &class)
	})
	if nil != err {
		t.Fatalf("register class %q error: %s", classId, err)
	}
}

func issue(t *testing.T, classId string, owner string, now uint64) string {
	var tokenId string
	err := inTransaction(t, func(trx storage.Transaction) error {
		var err error
		tokenId, err = registry.Issue(trx, classId, owner, now)
		return err
	})
	if nil != err {
		t.Fatalf("issue %q error: %s", classId, err)
	}
	return tokenId
}

func TestClassRegistration(t *testing.T) {

	registerClass(t, "medal", tokenrecord.Class{
		Creator:   "mint.root",
		MaxCopies: 2,
		Reference: "ipfs://medal",
	})

	class, err := registry.Class(nil, "medal")
	assert.Nil(t, err, "class fetch failed")
	assert.Equal(t, "mint.root", class.Creator, "wrong creator")
	assert.Equal(t, uint64(0), class.CopiesIssued, "fresh class has issues")

	// duplicate must fail
	err = inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterClass(trx, "medal", &tokenrecord.Class{Creator: "mint.root"})
	})
	assert.Equal(t, fault.TokenAlreadyExists, err, "duplicate class allowed")

	// unknown dependencies must fail
	err = inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterClass(trx, "badge", &tokenrecord.Class{
			Creator:   "mint.root",
			ClassDeps: []string{"no-such-class"},
		})
	})
	assert.Equal(t, fault.TokenClassNotFound, err, "dangling class dependency allowed")

	err = inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterClass(trx, "badge", &tokenrecord.Class{
			Creator:   "mint.root",
			EventDeps: []string{"no-such-event"},
		})
	})
	assert.Equal(t, fault.EventNotFound, err, "dangling event dependency allowed")

	// bad identifier must fail
	err = inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterClass(trx, "dot.forbidden", &tokenrecord.Class{Creator: "mint.root"})
	})
	assert.Equal(t, fault.InvalidTokenId, err, "bad class id allowed")
}

func TestIssue(t *testing.T) {

	registerClass(t, "coin", tokenrecord.Class{
		Creator:   "mint.root",
		MaxCopies: 2,
	})

	tokenId := issue(t, "coin", "alice", 100)
	assert.Equal(t, "coin.1", tokenId, "wrong first serial")

	tokenId = issue(t, "coin", "bob", 101)
	assert.Equal(t, "coin.2", tokenId, "wrong second serial")

	// copies exhausted
	err := inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Issue(trx, "coin", "carol", 102)
		return err
	})
	assert.Equal(t, fault.TokenExhausted, err, "issue beyond max copies allowed")

	owner, err := registry.OwnerOf(nil, "coin.1")
	assert.Nil(t, err, "owner lookup failed")
	assert.Equal(t, "alice", owner, "wrong owner")

	assert.True(t, registry.OwnsInstanceOf(nil, "alice", "coin"), "class tally missing")
	assert.False(t, registry.OwnsInstanceOf(nil, "carol", "coin"), "phantom class tally")

	_, err = registry.Token(nil, "coin.99")
	assert.Equal(t, fault.TokenNotFound, err, "phantom token found")
}

func TestUnregisteredHolders(t *testing.T) {

	registerClass(t, "deed", tokenrecord.Class{Creator: "mint.root"})

	// issuance to an account with no balance registration
	err := inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Issue(trx, "deed", "ghost", 100)
		return err
	})
	assert.Equal(t, fault.AccountNotRegistered, err, "unregistered owner allowed")

	// nor can a transfer create such an owner
	tokenId := issue(t, "deed", "alice", 101)
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "alice", "phantom", nil, 102)
		return err
	})
	assert.Equal(t, fault.AccountNotRegistered, err, "unregistered receiver allowed")

	owner, _ := registry.OwnerOf(nil, tokenId)
	assert.Equal(t, "alice", owner, "owner moved")
}

func TestIssueExpired(t *testing.T) {

	registerClass(t, "ticket", tokenrecord.Class{
		Creator:   "mint.root",
		ExpiresAt: 500,
	})

	issue(t, "ticket", "alice", 499)

	err := inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Issue(trx, "ticket", "bob", 501)
		return err
	})
	assert.Equal(t, fault.TokenExpired, err, "issue after expiry allowed")
}

func TestEligibility(t *testing.T) {

	registerClass(t, "pass", tokenrecord.Class{Creator: "mint.root"})
	err := inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterEvent(trx, "conf 2024", &tokenrecord.Event{
			Organiser:   "mint.root",
			PassClasses: []string{"pass"},
			StartsAt:    100,
			EndsAt:      200,
		})
	})
	assert.Nil(t, err, "event registration failed")

	registerClass(t, "vip", tokenrecord.Class{
		Creator:   "mint.root",
		ClassDeps: []string{"pass"},
		EventDeps: []string{"conf 2024"},
	})

	// dave holds nothing, the gate must stay closed
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Issue(trx, "vip", "dave", 150)
		return err
	})
	assert.Equal(t, fault.DependencyNotSatisfied, err, "ineligible issue allowed")

	// give dave a pass, both prerequisites are now satisfied
	issue(t, "pass", "dave", 150)

	tokenId := issue(t, "vip", "dave", 151)

	// transfer of the gated token requires an eligible receiver
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "dave", "erin", nil, 152)
		return err
	})
	assert.Equal(t, fault.DependencyNotSatisfied, err, "ineligible receiver allowed")

	issue(t, "pass", "erin", 153)
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "dave", "erin", nil, 154)
		return err
	})
	assert.Nil(t, err, "eligible transfer failed")

	owner, _ := registry.OwnerOf(nil, tokenId)
	assert.Equal(t, "erin", owner, "wrong owner after transfer")
}

func TestEligibilityAnyPass(t *testing.T) {

	registerClass(t, "day pass", tokenrecord.Class{Creator: "mint.root"})
	registerClass(t, "night pass", tokenrecord.Class{Creator: "mint.root"})
	err := inTransaction(t, func(trx storage.Transaction) error {
		return registry.RegisterEvent(trx, "expo", &tokenrecord.Event{
			Organiser:   "mint.root",
			PassClasses: []string{"day pass", "night pass"},
			StartsAt:    100,
			EndsAt:      200,
		})
	})
	assert.Nil(t, err, "event registration failed")

	registerClass(t, "souvenir", tokenrecord.Class{
		Creator:   "mint.root",
		EventDeps: []string{"expo"},
	})

	// carol holds neither pass
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Issue(trx, "souvenir", "carol", 150)
		return err
	})
	assert.Equal(t, fault.DependencyNotSatisfied, err, "passless issue allowed")

	// holding an instance of any one pass class satisfies the event
	issue(t, "night pass", "carol", 150)
	issue(t, "souvenir", "carol", 151)
}

func TestApprovals(t *testing.T) {

	registerClass(t, "art", tokenrecord.Class{Creator: "mint.root"})
	tokenId := issue(t, "art", "alice", 100)

	// only the owner can approve
	err := inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Approve(trx, tokenId, "bob", "market.root")
		return err
	})
	assert.Equal(t, fault.NotTokenOwner, err, "non-owner approve allowed")

	var firstId uint64
	err = inTransaction(t, func(trx storage.Transaction) error {
		var err error
		firstId, err = registry.Approve(trx, tokenId, "alice", "market.root")
		return err
	})
	assert.Nil(t, err, "approve failed")
	assert.Equal(t, uint64(0), firstId, "wrong first approval id")

	// re-approval issues a fresh id
	var secondId uint64
	err = inTransaction(t, func(trx storage.Transaction) error {
		var err error
		secondId, err = registry.Approve(trx, tokenId, "alice", "market.root")
		return err
	})
	assert.Nil(t, err, "re-approve failed")
	assert.Equal(t, firstId+1, secondId, "approval id did not advance")

	// a pin on the old id is stale
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "market.root", "bob", &firstId, 101)
		return err
	})
	assert.Equal(t, fault.StaleApproval, err, "stale approval accepted")

	// approved transfer with the current id
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "market.root", "bob", &secondId, 102)
		return err
	})
	assert.Nil(t, err, "approved transfer failed")

	owner, _ := registry.OwnerOf(nil, tokenId)
	assert.Equal(t, "bob", owner, "wrong owner after approved transfer")

	// the transfer cleared all approvals
	ok, err := registry.IsApproved(nil, tokenId, "market.root", nil)
	assert.Nil(t, err, "approval check failed")
	assert.False(t, ok, "approval survived ownership change")

	// and the stale grantee can no longer move the token
	err = inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Transfer(trx, tokenId, "market.root", "carol", nil, 103)
		return err
	})
	assert.Equal(t, fault.Unauthorised, err, "cleared approval still usable")
}

func TestRevoke(t *testing.T) {

	registerClass(t, "print", tokenrecord.Class{Creator: "mint.root"})
	tokenId := issue(t, "print", "alice", 100)

	inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Approve(trx, tokenId, "alice", "market.root")
		return err
	})
	inTransaction(t, func(trx storage.Transaction) error {
		_, err := registry.Approve(trx, tokenId, "alice", "agent.root")
		return err
	})

	var removed bool
	err := inTransaction(t, func(trx storage.Transaction) error {
		var err error
		removed, err = registry.Revoke(trx, tokenId, "alice", "market.root")
		return err
	})
	assert.Nil(t, err, "revoke failed")
	assert.True(t, removed, "revoke removed nothing")

	// revoking an absent grantee is a no-op
	err = inTransaction(t, func(trx storage.Transaction) error {
		var err error
		removed, err = registry.Revoke(trx, tokenId, "alice", "market.root")
		return err
	})
	assert.Nil(t, err, "second revoke errored")
	assert.False(t, removed, "second revoke removed something")

	var cleared int
	err = inTransaction(t, func(trx storage.Transaction) error {
		var err error
		cleared, err = registry.RevokeAll(trx, tokenId, "alice")
		return err
	})
	assert.Nil(t, err, "revoke all failed")
	assert.Equal(t, 1, cleared, "wrong cleared count")
}

func TestListTokens(t *testing.T) {

	registerClass(t, "stamp", tokenrecord.Class{Creator: "mint.root"})

	expected := make([]string, 0, 5)
	for i := 0; i < 5; i += 1 {
		expected = append(expected, issue(t, "stamp", "frank", 100))
	}

	holdings, err := registry.ListTokensFor("frank", 0, 10)
	assert.Nil(t, err, "list failed")
	assert.Equal(t, len(expected), len(holdings), "wrong holding count")
	for i, h := range holdings {
		assert.Equal(t, expected[i], h.TokenId, "wrong token at %d", i)
	}

	// paging resumes after the last entry
	firstPage, err := registry.ListTokensFor("frank", 0, 2)
	assert.Nil(t, err, "first page failed")
	assert.Equal(t, 2, len(firstPage), "wrong first page size")
	secondPage, err := registry.ListTokensFor("frank", firstPage[1].N+1, 2)
	assert.Nil(t, err, "second page failed")
	assert.Equal(t, 2, len(secondPage), "wrong second page size")
	assert.Equal(t, expected[2], secondPage[0].TokenId, "wrong paging resume")

	assert.Equal(t, uint64(5), registry.CountTokensFor("frank"), "wrong count")
}

func TestMarketplaceAllowList(t *testing.T) {

	err := inTransaction(t, func(trx storage.Transaction) error {
		return registry.ApproveMarketplace(trx, "market.root", "root")
	})
	assert.Nil(t, err, "marketplace approve failed")
	assert.True(t, registry.IsMarketplace(nil, "market.root"), "marketplace missing")

	inTransaction(t, func(trx storage.Transaction) error {
		registry.RevokeMarketplace(trx, "market.root")
		return nil
	})
	assert.False(t, registry.IsMarketplace(nil, "market.root"), "marketplace survived revoke")
}
