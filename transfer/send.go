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
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/storage"
)

// Send - plain fungible transfer, settled synchronously
func Send(from string, to string, amount uint64, memo string) error {

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	err = ledger.Transfer(trx, from, to, amount)
	if nil != err {
		trx.Abort()
		return err
	}

	detail := fmt.Sprintf("%d to %q", amount, to)
	if "" != memo {
		detail += " memo: " + memo
	}
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindTransfer, from, detail)
	if nil != err {
		trx.Abort()
		return err
	}

	return trx.Commit()
}

// SendAndCall - fungible transfer with receiver notification
//
// the full amount is moved up front, then the receiver hook runs on
// the dispatch queue; reconciliation refunds whatever the hook left
// unused, clamped by what the receiver still holds
//
// the budget is checked before any state is touched
func SendAndCall(from string, to string, amount uint64, memo string, budgetUnits uint64) (uint64, error) {

	// precondition, nothing is mutated on failure
	budget, err := dispatch.NewBudget(budgetUnits)
	if nil != err {
		return 0, err
	}

	record := &Record{
		From:    from,
		To:      to,
		Amount:  amount,
		Memo:    memo,
		State:   StateInitiated,
		Outcome: OutcomePending,
	}
	id := newRecord(record)

	// optimistic transfer of the whole amount
	trx, err := storage.NewDBTransaction()
	if nil != err {
		dropRecord(id)
		return 0, err
	}

	err = ledger.Transfer(trx, from, to, amount)
	if nil != err {
		trx.Abort()
		dropRecord(id)
		return 0, err
	}

	detail := fmt.Sprintf("call %d to %q", amount, to)
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindSend, from, detail)
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

	task := &amountTask{
		id:     id,
		from:   from,
		to:     to,
		amount: amount,
		memo:   memo,
		budget: budget,
	}
	err = dispatch.Enqueue(task)
	if nil != err {
		// queue unavailable, reconcile inline with a full refund
		task.Resolve(err)
		return id, nil
	}

	updateRecord(id, func(record *Record) {
		record.State = StateNotifiedPending
	})
	return id, nil
}

// amountTask - queued notification of a fungible transfer-and-call
type amountTask struct {
	id     uint64
	from   string
	to     string
	amount uint64
	memo   string
	budget *dispatch.Budget

	// amount the hook declared used
	used uint64
}

// Execute - run the receiver hook
func (task *amountTask) Execute() error {
	receiver, ok := dispatch.ReceiverFor(task.to)
	if !ok {
		return fault.ReceiverNotRegistered
	}

	used, err := receiver.ReceiveAmount(task.from, task.amount, task.memo, task.budget)
	if nil != err {
		return err
	}
	task.used = used
	return nil
}

// Resolve - settle the transfer
//
// refund = min(declared unused, receiver current balance), the
// receiver may already have spent part of the amount; a refund to a
// sender that unregistered while suspended is burned
func (task *amountTask) Resolve(execErr error) {

	// already settled, a second application must not touch balances
	if !unresolved(task.id) {
		return
	}

	used := task.used
	if nil != execErr {
		// conservative default, nothing was used
		used = 0
	} else if used > task.amount {
		// a hook cannot use more than it was sent
		used = task.amount
	}
	unused := task.amount - used

	refunded := uint64(0)
	burned := uint64(0)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		globalData.log.Criticalf("resolve %d: transaction begin: %s", task.id, err)
		return
	}

	if unused > 0 {
		balance, err := ledger.Balance(trx, task.to)
		if nil != err {
			// receiver unregistered while suspended
			balance = 0
		}
		refunded = unused
		if balance < refunded {
			refunded = balance
		}

		if refunded > 0 {
			err = ledger.Debit(trx, task.to, refunded)
			if nil != err {
				globalData.log.Criticalf("resolve %d: debit: %s", task.id, err)
				trx.Abort()
				return
			}

			if ledger.IsRegistered(trx, task.from) {
				err = ledger.Credit(trx, task.from, refunded)
				if nil != err {
					globalData.log.Criticalf("resolve %d: credit: %s", task.id, err)
					trx.Abort()
					return
				}
			} else {
				// sender unregistered while suspended
				ledger.Burn(trx, refunded)
				burned = refunded
			}
		}
	}

	outcome := OutcomeCommitted
	if refunded > 0 {
		if refunded == task.amount {
			outcome = OutcomeFullyReverted
		} else {
			outcome = OutcomePartiallyReverted
		}
	}

	detail := fmt.Sprintf("call %d to %q refunded %d burned %d: %s", task.amount, task.to, refunded, burned, outcome)
	_, err = eventlog.Append(trx, uint64(time.Now().Unix()), eventlog.KindResolve, task.from, detail)
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

	hookErr := ""
	if nil != execErr {
		hookErr = execErr.Error()
	}
	updateRecord(task.id, func(record *Record) {
		record.State = StateResolved
		record.Outcome = outcome
		record.Used = task.amount - refunded
		record.Refunded = refunded
		record.Burned = burned
		record.HookErr = hookErr
	})

	globalData.log.Infof("resolved %d: %s refunded: %d", task.id, outcome, refunded)
}
