// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/storage"
)

func currentBalance(t *testing.T, name string) uint64 {
	b, err := ledger.Balance(nil, name)
	if nil != err {
		t.Fatalf("balance %q error: %s", name, err)
	}
	return b
}

// a reconciliation delivered twice must settle only once, the second
// application with the same captured outcome leaves every balance
// untouched
func TestResolveAppliedTwice(t *testing.T) {

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	for _, name := range []string{"olive", "kettle"} {
		if err := ledger.Register(trx, name, "", nil, 1); nil != err {
			t.Fatalf("register %q error: %s", name, err)
		}
	}
	if err := ledger.Mint(trx, "olive", 1000); nil != err {
		t.Fatalf("mint error: %s", err)
	}

	// the applied phase of a transfer-and-call, amount already moved
	if err := ledger.Transfer(trx, "olive", "kettle", 400); nil != err {
		t.Fatalf("transfer error: %s", err)
	}
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}

	id := newRecord(&Record{
		From:    "olive",
		To:      "kettle",
		Amount:  400,
		State:   StateApplied,
		Outcome: OutcomePending,
	})

	task := &amountTask{
		id:     id,
		from:   "olive",
		to:     "kettle",
		amount: 400,
		used:   150,
	}

	task.Resolve(nil)

	record, err := Status(id)
	assert.Nil(t, err, "status failed")
	assert.Equal(t, StateResolved, record.State, "not settled")
	assert.Equal(t, OutcomePartiallyReverted, record.Outcome, "wrong outcome")
	assert.Equal(t, uint64(250), record.Refunded, "wrong refund")
	assert.Equal(t, uint64(850), currentBalance(t, "olive"), "wrong sender balance")
	assert.Equal(t, uint64(150), currentBalance(t, "kettle"), "wrong receiver balance")

	// same outcome delivered again
	task.Resolve(nil)

	record, err = Status(id)
	assert.Nil(t, err, "status failed")
	assert.Equal(t, uint64(250), record.Refunded, "refund changed")
	assert.Equal(t, uint64(850), currentBalance(t, "olive"), "second application debited")
	assert.Equal(t, uint64(150), currentBalance(t, "kettle"), "second application credited")
}
