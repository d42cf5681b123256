// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"bytes"
	"testing"

	"github.com/keeperhq/tokend/storage"
)

// this is the expected order after all writes
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one(NEW)"},
	{"key-seven", "data-seven"},
	{"key-six", "data-six"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
	// {"key-remove-me", …} // this was removed
})

// a key that must not exist
var nonExistantKey = []byte("/nonexistant")

// main pool test
func TestPool(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	// ensure that pool was empty
	checkAgain(t, true)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}

	trx.Put(p, []byte("key-one"), []byte("data-one"))
	trx.Put(p, []byte("key-two"), []byte("data-two"))
	trx.Put(p, []byte("key-remove-me"), []byte("to be deleted"))
	trx.Delete(p, []byte("key-remove-me"))
	trx.Put(p, []byte("key-three"), []byte("data-three"))
	trx.Put(p, []byte("key-four"), []byte("data-four"))
	trx.Put(p, []byte("key-delete-this"), []byte("to be deleted"))
	trx.Put(p, []byte("key-five"), []byte("data-five"))
	trx.Put(p, []byte("key-six"), []byte("data-six"))
	trx.Delete(p, []byte("key-delete-this"))
	trx.Put(p, []byte("key-seven"), []byte("data-seven"))
	trx.Put(p, []byte("key-one"), []byte("data-one(NEW)")) // duplicate

	// uncommitted writes must be visible through the transaction
	if !trx.Has(p, []byte("key-seven")) {
		t.Errorf("pending write not visible")
	}
	if trx.Has(p, []byte("key-delete-this")) {
		t.Errorf("pending delete still visible")
	}

	err = trx.Commit()
	if nil != err {
		t.Fatalf("transaction commit error: %s", err)
	}

	// ensure that data is correct
	checkResults(t, p)

	// recheck
	checkAgain(t, false)

	// check that restarting database keeps data
	storage.Finalise()
	_, err = storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage reinitialise error: %s", err)
	}
	checkAgain(t, false)
}

func checkResults(t *testing.T, p *storage.PoolHandle) {

	// ensure we get all of the pool
	cursor := p.NewFetchCursor()
	data, err := cursor.Fetch(20)
	if nil != err {
		t.Fatalf("error on Fetch: %v", err)
	}

	// ensure lengths match
	if len(data) != len(expectedElements) {
		t.Errorf("Fetch: %d elements  expected: %d", len(data), len(expectedElements))
	}

	// compare all items from pool
	for i, a := range data {
		if i >= len(expectedElements) {
			break
		}
		e := expectedElements[i]
		if !bytes.Equal(a.Key, e.Key) || !bytes.Equal(a.Value, e.Value) {
			t.Errorf("%d: actual: %q:%q  expected: %q:%q", i, a.Key, a.Value, e.Key, e.Value)
		}
	}

	// retrieve 2 elements then next 2, ensuring paging works
	cursor = p.NewFetchCursor()
	firstPage, err := cursor.Fetch(2)
	if nil != err {
		t.Fatalf("error on Fetch: %v", err)
	}
	secondPage, err := cursor.Fetch(2)
	if nil != err {
		t.Fatalf("error on Fetch: %v", err)
	}
	paged := append(firstPage, secondPage...)
	for i, a := range paged {
		e := expectedElements[i]
		if !bytes.Equal(a.Key, e.Key) || !bytes.Equal(a.Value, e.Value) {
			t.Errorf("page %d: actual: %q:%q  expected: %q:%q", i, a.Key, a.Value, e.Key, e.Value)
		}
	}

	// check a single element fetch
	value := p.Get([]byte("key-two"))
	if !bytes.Equal(value, []byte("data-two")) {
		t.Errorf("Get: %q  expected: %q", value, "data-two")
	}

	// check error conditions
	if p.Has(nonExistantKey) {
		t.Errorf("Has: non-existant key was found")
	}
	if nil != p.Get(nonExistantKey) {
		t.Errorf("Get: non-existant key was found")
	}

	// check last element
	last, found := p.LastElement()
	if !found {
		t.Fatalf("LastElement: pool is empty")
	}
	e := expectedElements[len(expectedElements)-1]
	if !bytes.Equal(last.Key, e.Key) || !bytes.Equal(last.Value, e.Value) {
		t.Errorf("last: actual: %q:%q  expected: %q:%q", last.Key, last.Value, e.Key, e.Value)
	}
}

func checkAgain(t *testing.T, empty bool) {

	p := storage.Pool.TestData

	// cache will be empty
	expected := expectedElements
	if empty {
		expected = nil
	}

	cursor := p.NewFetchCursor()
	data, err := cursor.Fetch(len(expected) + 10) // ensure default count is exceeded
	if nil != err {
		t.Fatalf("error on Fetch: %v", err)
	}

	// ensure lengths match
	if len(data) != len(expected) {
		t.Fatalf("Fetch: %d elements  expected: %d", len(data), len(expected))
	}

	for i, a := range data {
		e := expected[i]
		if !bytes.Equal(a.Key, e.Key) || !bytes.Equal(a.Value, e.Value) {
			t.Errorf("%d: actual: %q:%q  expected: %q:%q", i, a.Key, a.Value, e.Key, e.Value)
		}
	}
}

func TestTransactionAbort(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.Put(p, []byte("discard-me"), []byte("junk"))
	trx.Abort()

	if p.Has([]byte("discard-me")) {
		t.Errorf("aborted write was stored")
	}

	// a second transaction can begin after abort
	trx, err = storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.Abort()
}

func TestTransactionExclusion(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}

	_, err = storage.NewDBTransaction()
	if nil == err {
		t.Errorf("overlapping transaction was allowed")
	}

	trx.Abort()
}

func TestGetN(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.PutN(p, []byte("counter"), 42)
	trx.Put(p, []byte("record"), append([]byte{0, 0, 0, 0, 0, 0, 0, 7}, []byte("payload")...))
	err = trx.Commit()
	if nil != err {
		t.Fatalf("transaction commit error: %s", err)
	}

	n, found := p.GetN([]byte("counter"))
	if !found {
		t.Fatalf("GetN: missing record")
	}
	if 42 != n {
		t.Errorf("GetN: %d  expected: %d", n, 42)
	}

	_, found = p.GetN(nonExistantKey)
	if found {
		t.Errorf("GetN: non-existant key was found")
	}

	n, buffer := p.GetNB([]byte("record"))
	if 7 != n {
		t.Errorf("GetNB: %d  expected: %d", n, 7)
	}
	if !bytes.Equal(buffer, []byte("payload")) {
		t.Errorf("GetNB: %q  expected: %q", buffer, "payload")
	}
}
