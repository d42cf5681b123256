// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approvals_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/rpc/approvals"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

const (
	databaseFileName = "approvals-test"
)

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("approvals-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "approvals-test.log",
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

	trx, err := storage.NewDBTransaction()
	if nil != err {
		panic(fmt.Sprintf("transaction begin failed: %s", err))
	}
	for _, name := range []string{"alice", "bob"} {
		if err := ledger.Register(trx, name, "", nil, 1); nil != err {
			panic(fmt.Sprintf("register failed: %s", err))
		}
	}
	if err := registry.RegisterClass(trx, "print", &tokenrecord.Class{Creator: "alice"}); nil != err {
		panic(fmt.Sprintf("register class failed: %s", err))
	}
	if _, err := registry.Issue(trx, "print", "alice", 1); nil != err {
		panic(fmt.Sprintf("issue failed: %s", err))
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

func normalMode(mode.Mode) bool { return true }

func TestGrantCheckRevoke(t *testing.T) {
	service := approvals.New(logger.New("test-approval"), normalMode)

	var grant approvals.GrantReply
	err := service.Grant(&approvals.GrantArguments{
		TokenId: "print.1",
		Caller:  "alice",
		Grantee: "bob",
	}, &grant)
	assert.Nil(t, err, "grant failed")
	assert.Equal(t, uint64(0), grant.ApprovalId, "wrong first approval id")

	// only the owner can grant
	err = service.Grant(&approvals.GrantArguments{
		TokenId: "print.1",
		Caller:  "bob",
		Grantee: "alice",
	}, &grant)
	assert.Equal(t, fault.NotTokenOwner, err, "non-owner grant allowed")

	var check approvals.CheckReply
	err = service.Check(&approvals.CheckArguments{
		TokenId: "print.1",
		Grantee: "bob",
	}, &check)
	assert.Nil(t, err, "check failed")
	assert.True(t, check.Approved, "approval missing")

	// a pinned stale id must not match
	stale := uint64(99)
	err = service.Check(&approvals.CheckArguments{
		TokenId:    "print.1",
		Grantee:    "bob",
		ApprovalId: &stale,
	}, &check)
	assert.Nil(t, err, "check failed")
	assert.False(t, check.Approved, "stale pin matched")

	var revoke approvals.RevokeReply
	err = service.Revoke(&approvals.GrantArguments{
		TokenId: "print.1",
		Caller:  "alice",
		Grantee: "bob",
	}, &revoke)
	assert.Nil(t, err, "revoke failed")
	assert.True(t, revoke.Removed, "revoke removed nothing")

	var revokeAll approvals.RevokeAllReply
	err = service.RevokeAll(&approvals.RevokeAllArguments{
		TokenId: "print.1",
		Caller:  "alice",
	}, &revokeAll)
	assert.Nil(t, err, "revoke all failed")
	assert.Equal(t, 0, revokeAll.Cleared, "wrong cleared count")
}

// every mutation must be refused outside Normal mode
func TestModeGate(t *testing.T) {
	service := approvals.New(logger.New("test-approval"), func(mode.Mode) bool {
		return false
	})

	var grant approvals.GrantReply
	err := service.Grant(&approvals.GrantArguments{
		TokenId: "print.1",
		Caller:  "alice",
		Grantee: "bob",
	}, &grant)
	assert.Equal(t, fault.NotAvailableDuringSynchronise, err, "grant allowed")

	var revoke approvals.RevokeReply
	err = service.Revoke(&approvals.GrantArguments{
		TokenId: "print.1",
		Caller:  "alice",
		Grantee: "bob",
	}, &revoke)
	assert.Equal(t, fault.NotAvailableDuringSynchronise, err, "revoke allowed")

	var revokeAll approvals.RevokeAllReply
	err = service.RevokeAll(&approvals.RevokeAllArguments{
		TokenId: "print.1",
		Caller:  "alice",
	}, &revokeAll)
	assert.Equal(t, fault.NotAvailableDuringSynchronise, err, "revoke all allowed")
}
