// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transfer - two phase transfer-and-call protocol
//
// the value is moved optimistically, the receiver hook is notified
// through the dispatch queue, and reconciliation settles what the
// hook left unused:
//
//   Initiated -> Applied -> NotifiedPending -> Resolved
//
// defaults are conservative: a hook that fails, panics or does not
// exist leaves the protocol refunding everything it still can
package transfer

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
)

// State - lifecycle of a transfer-and-call
type State int

// protocol states
const (
	StateInitiated State = iota
	StateApplied
	StateNotifiedPending
	StateResolved
)

// String - printable state
func (state State) String() string {
	switch state {
	case StateInitiated:
		return "Initiated"
	case StateApplied:
		return "Applied"
	case StateNotifiedPending:
		return "NotifiedPending"
	case StateResolved:
		return "Resolved"
	default:
		return "*Unknown*"
	}
}

// Outcome - settlement of a resolved transfer-and-call
type Outcome int

// possible outcomes
const (
	OutcomePending Outcome = iota
	OutcomeCommitted
	OutcomePartiallyReverted
	OutcomeFullyReverted
)

// String - printable outcome
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomePending:
		return "Pending"
	case OutcomeCommitted:
		return "Committed"
	case OutcomePartiallyReverted:
		return "PartiallyReverted"
	case OutcomeFullyReverted:
		return "FullyReverted"
	default:
		return "*Unknown*"
	}
}

// Record - the public view of one transfer-and-call
type Record struct {
	Id       uint64  `json:"id,string"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   uint64  `json:"amount,string"`
	TokenId  string  `json:"tokenId,omitempty"`
	Memo     string  `json:"memo"`
	State    State   `json:"state"`
	Outcome  Outcome `json:"outcome"`
	Used     uint64  `json:"used,string"`
	Refunded uint64  `json:"refunded,string"`
	Burned   uint64  `json:"burned,string"`
	HookErr  string  `json:"hookError,omitempty"`
}

// globals
type transferData struct {
	sync.RWMutex

	log *logger.L

	nextId  uint64
	pending map[uint64]*Record

	// set once during initialise
	initialised bool
}

// global data
var globalData transferData

// Initialise - setup the transfer protocol
//
// dispatch must be initialised first
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("transfer")
	globalData.log.Info("starting…")

	globalData.nextId = 1
	globalData.pending = make(map[uint64]*Record)

	globalData.initialised = true
	return nil
}

// Finalise - stop the transfer protocol
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// Status - the current record of a transfer-and-call
func Status(id uint64) (Record, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	record, ok := globalData.pending[id]
	if !ok {
		return Record{}, fault.TransferNotFound
	}
	return *record, nil
}

// internal: allocate an id and register a record, must not hold lock
func newRecord(record *Record) uint64 {
	globalData.Lock()
	defer globalData.Unlock()

	id := globalData.nextId
	globalData.nextId += 1
	record.Id = id
	globalData.pending[id] = record
	return id
}

// internal: remove a record that never applied
func dropRecord(id uint64) {
	globalData.Lock()
	defer globalData.Unlock()
	delete(globalData.pending, id)
}

// internal: true while a record exists and has not settled
//
// settlement applies exactly once, a repeated reconciliation with
// the same captured outcome must leave every balance untouched
func unresolved(id uint64) bool {
	globalData.RLock()
	defer globalData.RUnlock()

	record, ok := globalData.pending[id]
	return ok && StateResolved != record.State
}

// internal: mutate a record under lock
func updateRecord(id uint64, f func(record *Record)) {
	globalData.Lock()
	defer globalData.Unlock()

	if record, ok := globalData.pending[id]; ok {
		f(record)
	}
}
