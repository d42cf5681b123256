// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"fmt"
	"time"

	"github.com/keeperhq/tokend/dispatch"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// TokenSend - plain token transfer, settled synchronously
//
// the caller is the owner or an approved account, optionally pinning
// the approval id it believes it holds
func TokenSend(caller string, to string, tokenId string, approvalId *uint64, memo string) error {

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	_, err = registry.Transfer(trx, tokenId, caller, to, approvalId, uint64(time.Now().Unix()))
	if nil != err {
		trx.Abort()
		return err
	}

	detail := fmt.Sprintf("%q to %q", tokenId, to)
	if "" != memo {
		detail += " memo: " + memo
	}
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindTokenTransfer, caller, detail)
	if nil != err {
		trx.Abort()
		return err
	}

	return trx.Commit()
}

// TokenSendAndCall - token transfer with receiver notification
//
// ownership moves optimistically and the approval set is snapshotted
// first; when the receiver rejects the token or its hook fails the
// snapshot is restored, unless the token has already moved on
func TokenSendAndCall(caller string, to string, tokenId string, approvalId *uint64, memo string, budgetUnits uint64) (uint64, error) {

	// precondition, nothing is mutated on failure
	budget, err := dispatch.NewBudget(budgetUnits)
	if nil != err {
		return 0, err
	}

	// snapshot for a possible revert
	token, err := registry.Token(nil, tokenId)
	if nil != err {
		return 0, err
	}
	previousOwner := token.Owner
	snapshot := make([]tokenrecord.Approval, len(token.Approvals))
	copy(snapshot, token.Approvals)

	record := &Record{
		From:    previousOwner,
		To:      to,
		TokenId: tokenId,
		Memo:    memo,
		State:   StateInitiated,
		Outcome: OutcomePending,
	}
	id := newRecord(record)

	// optimistic ownership change
	trx, err := storage.NewDBTransaction()
	if nil != err {
		dropRecord(id)
		return 0, err
	}

	_, err = registry.Transfer(trx, tokenId, caller, to, approvalId, uint64(time.Now().Unix()))
	if nil != err {
		trx.Abort()
		dropRecord(id)
		return 0, err
	}

	detail := fmt.Sprintf("call %q to %q", tokenId, to)
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindSend, caller, detail)
	if nil != err {
		trx.Abort()
		dropRecord(id)
		return 0, err
	}

	err = trx.Commit()
	if nil != err {
		dropRecord(id)
		return 0, err
	}

	updateRecord(id, func(record *Record) {
		record.State = StateApplied
	})

	task := &tokenTask{
		id:            id,
		previousOwner: previousOwner,
		to:            to,
		tokenId:       tokenId,
		memo:          memo,
		budget:        budget,
		snapshot:      snapshot,
	}
	err = dispatch.Enqueue(task)
	if nil != err {
		task.Resolve(err)
		return id, nil
	}

	updateRecord(id, func(record *Record) {
		record.State = StateNotifiedPending
	})
	return id, nil
}

// tokenTask - queued notification of a token transfer-and-call
type tokenTask struct {
	id            uint64
	previousOwner string
	to            string
	tokenId       string
	memo          string
	budget        *dispatch.Budget
	snapshot      []tokenrecord.Approval

	// whether the hook accepted the token
	keep bool
}

// Execute - run the receiver hook
func (task *tokenTask) Execute() error {
	receiver, ok := dispatch.ReceiverFor(task.to)
	if !ok {
		return fault.ReceiverNotRegistered
	}

	keep, err := receiver.ReceiveToken(task.previousOwner, task.tokenId, task.memo, task.budget)
	if nil != err {
		return err
	}
	task.keep = keep
	return nil
}

// Resolve - settle the token transfer
//
// a failed or rejecting hook returns the token to the previous owner
// with its approval snapshot restored; a token that was burned or
// moved on while suspended is left where it is
func (task *tokenTask) Resolve(execErr error) {

	// already settled, a second application must not move the token
	if !unresolved(task.id) {
		return
	}

	if nil == execErr && task.keep {
		task.settle(OutcomeCommitted, false, execErr)
		return
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		globalData.log.Criticalf("resolve %d: transaction begin: %s", task.id, err)
		return
	}

	reverted, err := registry.Revert(trx, task.tokenId, task.to, task.previousOwner, task.snapshot)
	if nil != err {
		globalData.log.Criticalf("resolve %d: revert: %s", task.id, err)
		trx.Abort()
		return
	}

	outcome := OutcomeCommitted
	if reverted {
		outcome = OutcomeFullyReverted
	}

	detail := fmt.Sprintf("call %q to %q: %s", task.tokenId, task.to, outcome)
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindResolve, task.previousOwner, detail)
	if nil != err {
		globalData.log.Criticalf("resolve %d: eventlog: %s", task.id, err)
		trx.Abort()
		return
	}

	err = trx.Commit()
	if nil != err {
		globalData.log.Criticalf("resolve %d: commit: %s", task.id, err)
		return
	}

	task.settle(outcome, reverted, execErr)
}

// update the public record
func (task *tokenTask) settle(outcome Outcome, reverted bool, execErr error) {
	hookErr := ""
	if nil != execErr {
		hookErr = execErr.Error()
	}
	updateRecord(task.id, func(record *Record) {
		record.State = StateResolved
		record.Outcome = outcome
		record.HookErr = hookErr
	})
	globalData.log.Infof("resolved %d: %s reverted: %v", task.id, outcome, reverted)
}
