// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventlog_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/storage"
)

const (
	databaseFileName = "eventlog-test"
)

func removeFiles() {
	os.RemoveAll(databaseFileName + "-data.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("eventlog-test.log")
}

func TestMain(m *testing.M) {
	curPath := os.Getenv("PWD")
	var logConfig = logger.Configuration{
		Directory: curPath,
		File:      "eventlog-test.log",
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
	err = eventlog.Initialise()
	if nil != err {
		panic(fmt.Sprintf("eventlog initialise failed: %s", err))
	}

	rc := m.Run()

	eventlog.Finalise()
	storage.Finalise()
	removeFiles()
	os.Exit(rc)
}

func appendEntry(t *testing.T, timestamp uint64, kind eventlog.Kind, actor string, detail string) uint64 {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	seq, err := eventlog.Append(trx, timestamp, kind, actor, detail)
	if nil != err {
		trx.Abort()
		t.Fatalf("append error: %s", err)
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("transaction commit error: %s", err)
	}
	return seq
}

func TestChain(t *testing.T) {

	assert.Equal(t, uint64(0), eventlog.Length(nil), "log not empty")
	assert.Nil(t, eventlog.Verify(), "empty chain invalid")

	seq := appendEntry(t, 100, eventlog.KindMint, "treasury.root", "mint 1000 to alice")
	assert.Equal(t, uint64(0), seq, "wrong first sequence")

	seq = appendEntry(t, 101, eventlog.KindTransfer, "alice", "300 to bob")
	assert.Equal(t, uint64(1), seq, "wrong second sequence")

	appendEntry(t, 102, eventlog.KindIssue, "mint.root", "coin.1 to alice")

	assert.Equal(t, uint64(3), eventlog.Length(nil), "wrong length")
	assert.Nil(t, eventlog.Verify(), "chain invalid")

	entries, err := eventlog.Fetch(0, 10)
	assert.Nil(t, err, "fetch failed")
	assert.Equal(t, 3, len(entries), "wrong entry count")

	assert.Equal(t, eventlog.KindMint, entries[0].Kind, "wrong kind")
	assert.Equal(t, "treasury.root", entries[0].Actor, "wrong actor")
	assert.Equal(t, uint64(100), entries[0].Timestamp, "wrong timestamp")
	assert.Equal(t, eventlog.Digest{}, entries[0].Previous, "first entry has a predecessor")

	// each entry must reference the digest of the one before
	assert.NotEqual(t, eventlog.Digest{}, entries[1].Previous, "second entry unchained")
	assert.NotEqual(t, entries[1].Previous, entries[2].Previous, "digest reused")

	// paged fetch
	page, err := eventlog.Fetch(1, 1)
	assert.Nil(t, err, "paged fetch failed")
	assert.Equal(t, 1, len(page), "wrong page size")
	assert.Equal(t, uint64(1), page[0].Seq, "wrong page entry")
}

func TestAbortLeavesNoGap(t *testing.T) {

	lengthBefore := eventlog.Length(nil)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	_, err = eventlog.Append(trx, 200, eventlog.KindSend, "alice", "discarded")
	assert.Nil(t, err, "append failed")
	trx.Abort()

	assert.Equal(t, lengthBefore, eventlog.Length(nil), "aborted append changed length")
	assert.Nil(t, eventlog.Verify(), "chain invalid after abort")

	// the next committed entry takes the sequence the aborted one held
	seq := appendEntry(t, 201, eventlog.KindSend, "alice", "kept")
	assert.Equal(t, lengthBefore, seq, "sequence gap after abort")
	assert.Nil(t, eventlog.Verify(), "chain invalid")
}
