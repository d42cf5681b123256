// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package eventlog - hash chained audit trail of ledger operations
//
// entries are appended inside the same storage transaction as the
// state change they describe, so the log and the state can never
// disagree after a crash
package eventlog

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/util"
)

// Kind - classification of a log entry
type Kind string

// enumerate the possible entry kinds
const (
	KindRegister      = Kind("register")
	KindUnregister    = Kind("unregister")
	KindMint          = Kind("mint")
	KindTransfer      = Kind("transfer")
	KindSend          = Kind("send")
	KindResolve       = Kind("resolve")
	KindClass         = Kind("class")
	KindEvent         = Kind("event")
	KindIssue         = Kind("issue")
	KindTokenTransfer = Kind("token-transfer")
	KindApprove       = Kind("approve")
	KindRevoke        = Kind("revoke")
	KindMarketplace   = Kind("marketplace")
	KindMetadata      = Kind("metadata")
)

// Entry - one audit record
type Entry struct {
	Seq       uint64 `json:"seq,string"`
	Previous  Digest `json:"previous"`
	Timestamp uint64 `json:"timestamp,string"`
	Kind      Kind   `json:"kind"`
	Actor     string `json:"actor"`
	Detail    string `json:"detail"`
}

// key of the record holding next sequence and digest of the latest
// entry, sequence keys are always 8 bytes so the two cannot collide
var headKey = []byte("HEAD")

// globals
type eventlogData struct {
	sync.RWMutex

	log *logger.L

	// set once during initialise
	initialised bool
}

// global data
var globalData eventlogData

// Initialise - setup the event log
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("eventlog")
	globalData.log.Info("starting…")

	globalData.initialised = true
	return nil
}

// Finalise - shut down the event log
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// Append - chain a new entry onto the log
//
// the head record is read and written through the same transaction so
// an aborted operation leaves no gap in the chain
func Append(trx storage.Transaction, timestamp uint64, kind Kind, actor string, detail string) (uint64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	seq := uint64(0)
	var previous Digest
	headSeq, headDigest := trx.GetNB(storage.Pool.EventLog, headKey)
	if nil != headDigest {
		if DigestLength != len(headDigest) {
			globalData.log.Criticalf("append: head record: %x", headDigest)
			logger.Panic("eventlog.Append: head record corrupt")
		}
		seq = headSeq
		copy(previous[:], headDigest)
	}

	value := packEntry(previous, timestamp, kind, actor, detail)

	seqKey := make([]byte, 8)
	binary.BigEndian.PutUint64(seqKey, seq)
	trx.Put(storage.Pool.EventLog, seqKey, value)

	digest := NewDigest(value)
	head := make([]byte, 8, 8+DigestLength)
	binary.BigEndian.PutUint64(head, seq+1)
	head = append(head, digest[:]...)
	trx.Put(storage.Pool.EventLog, headKey, head)

	globalData.log.Debugf("append: %d %s %q %q", seq, kind, actor, detail)
	return seq, nil
}

// Length - number of entries in the log
func Length(trx storage.Transaction) uint64 {
	var n uint64
	if nil == trx {
		n, _ = storage.Pool.EventLog.GetN(headKey)
	} else {
		n, _ = trx.GetN(storage.Pool.EventLog, headKey)
	}
	return n
}

// Fetch - read a range of entries starting from a sequence number
func Fetch(start uint64, count int) ([]Entry, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if count <= 0 {
		return nil, fault.InvalidCount
	}

	length := Length(nil)
	entries := make([]Entry, 0, count)
	for seq := start; seq < length && len(entries) < count; seq += 1 {
		entry, err := fetchOne(seq)
		if nil != err {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Verify - walk the whole chain recomputing every digest
func Verify() error {
	globalData.RLock()
	defer globalData.RUnlock()

	length, _ := storage.Pool.EventLog.GetN(headKey)
	var previous Digest

	for seq := uint64(0); seq < length; seq += 1 {
		seqKey := make([]byte, 8)
		binary.BigEndian.PutUint64(seqKey, seq)
		value := storage.Pool.EventLog.Get(seqKey)
		if nil == value || len(value) < DigestLength {
			return fault.ChecksumMismatch
		}

		var stored Digest
		copy(stored[:], value[:DigestLength])
		if stored != previous {
			return fault.ChecksumMismatch
		}
		previous = NewDigest(value)
	}

	// final digest must match the head record
	_, headDigest := storage.Pool.EventLog.GetNB(headKey)
	if 0 == length {
		if nil != headDigest {
			return fault.ChecksumMismatch
		}
		return nil
	}
	var head Digest
	copy(head[:], headDigest)
	if head != previous {
		return fault.ChecksumMismatch
	}
	return nil
}

// entry layout:
//   previous digest ++ timestamp ++ kind ++ actor ++ detail
// with varint length prefixes on the string fields
func packEntry(previous Digest, timestamp uint64, kind Kind, actor string, detail string) []byte {
	value := make([]byte, 0, DigestLength+32+len(kind)+len(actor)+len(detail))
	value = append(value, previous[:]...)
	value = append(value, util.ToVarint64(timestamp)...)
	value = appendCounted(value, string(kind))
	value = appendCounted(value, actor)
	value = appendCounted(value, detail)
	return value
}

func appendCounted(buffer []byte, s string) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

func fetchOne(seq uint64) (Entry, error) {
	seqKey := make([]byte, 8)
	binary.BigEndian.PutUint64(seqKey, seq)
	value := storage.Pool.EventLog.Get(seqKey)
	if nil == value || len(value) < DigestLength {
		return Entry{}, fault.NotTokenRecord
	}

	entry := Entry{Seq: seq}
	copy(entry.Previous[:], value[:DigestLength])
	buffer := value[DigestLength:]

	timestamp, n := util.FromVarint64(buffer)
	if 0 == n {
		return Entry{}, fault.NotTokenRecord
	}
	entry.Timestamp = timestamp
	buffer = buffer[n:]

	kind, buffer, err := readCounted(buffer)
	if nil != err {
		return Entry{}, err
	}
	entry.Kind = Kind(kind)

	entry.Actor, buffer, err = readCounted(buffer)
	if nil != err {
		return Entry{}, err
	}

	entry.Detail, _, err = readCounted(buffer)
	if nil != err {
		return Entry{}, err
	}
	return entry, nil
}

func readCounted(buffer []byte) (string, []byte, error) {
	length, n := util.FromVarint64(buffer)
	if 0 == n {
		return "", nil, fault.NotTokenRecord
	}
	buffer = buffer[n:]
	if length > uint64(len(buffer)) {
		return "", nil, fault.NotTokenRecord
	}
	return string(buffer[:length]), buffer[length:], nil
}
