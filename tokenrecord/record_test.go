// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokenrecord_test

import (
	"reflect"
	"testing"

	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/tokenrecord"
)

func TestClassIdGrammar(t *testing.T) {
	valid := []string{
		"a",
		"concert ticket",
		"VIP_pass-2024",
		"0123456789",
	}
	for _, id := range valid {
		if !tokenrecord.IsValidClassId(id) {
			t.Errorf("valid class id rejected: %q", id)
		}
	}

	invalid := []string{
		"",
		"has.dot",
		"tab\tseparated",
		"non-ascii-é",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", // 65 chars
	}
	for _, id := range invalid {
		if tokenrecord.IsValidClassId(id) {
			t.Errorf("invalid class id accepted: %q", id)
		}
	}
}

func TestTokenIdRoundTrip(t *testing.T) {
	tokenId := tokenrecord.TokenId("concert ticket", 42)
	if "concert ticket.42" != tokenId {
		t.Fatalf("token id: %q", tokenId)
	}

	classId, serial, err := tokenrecord.ParseTokenId(tokenId)
	if nil != err {
		t.Fatalf("parse error: %s", err)
	}
	if "concert ticket" != classId || 42 != serial {
		t.Fatalf("parse: %q %d", classId, serial)
	}

	for _, bad := range []string{"", "no separator", ".42", "class.", "class.x", "class.-1"} {
		if _, _, err := tokenrecord.ParseTokenId(bad); fault.InvalidTokenId != err {
			t.Errorf("bad token id accepted: %q", bad)
		}
	}
}

func TestAccountPackUnpack(t *testing.T) {
	authority := make([]byte, 32)
	for i := range authority {
		authority[i] = byte(i)
	}
	record := &tokenrecord.Account{
		Parent:    "",
		Authority: authority,
		CreatedAt: 1700000000,
	}

	packed, err := record.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	back, ok := unpacked.(*tokenrecord.Account)
	if !ok {
		t.Fatalf("unpacked wrong type: %T", unpacked)
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("mismatch: %+v  original: %+v", back, record)
	}

	// a short authority key must be rejected before packing
	record.Authority = []byte{1, 2, 3}
	if _, err := record.Pack(); fault.InvalidKeyLength != err {
		t.Fatalf("short key accepted: %v", err)
	}
}

func TestClassPackUnpack(t *testing.T) {
	record := &tokenrecord.Class{
		Creator:      "alice",
		MaxCopies:    500,
		CopiesIssued: 17,
		ExpiresAt:    1800000000,
		ClassDeps:    []string{"membership"},
		EventDeps:    []string{"summit 2024"},
		Reference:    "https://example.com/class/vip",
	}

	packed, err := record.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	back, ok := unpacked.(*tokenrecord.Class)
	if !ok {
		t.Fatalf("unpacked wrong type: %T", unpacked)
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("mismatch: %+v  original: %+v", back, record)
	}

	// truncated records must not unpack
	for i := 1; i < len(packed); i++ {
		if _, err := packed[:i].Unpack(); nil == err {
			t.Fatalf("truncated record unpacked at %d bytes", i)
		}
	}
}

func TestTokenPackUnpack(t *testing.T) {
	record := &tokenrecord.Token{
		Owner:          "bob",
		IssuedAt:       1700000500,
		NextApprovalId: 3,
		Approvals: []tokenrecord.Approval{
			{Account: "market", Id: 1},
			{Account: "carol", Id: 2},
		},
	}

	packed, err := record.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	back, ok := unpacked.(*tokenrecord.Token)
	if !ok {
		t.Fatalf("unpacked wrong type: %T", unpacked)
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("mismatch: %+v  original: %+v", back, record)
	}
}

func TestEventPackUnpack(t *testing.T) {
	record := &tokenrecord.Event{
		Organiser:   "acme",
		PassClasses: []string{"summit pass", "sponsor pass"},
		StartsAt:    1750000000,
		EndsAt:      1750086400,
	}

	packed, err := record.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	back, ok := unpacked.(*tokenrecord.Event)
	if !ok {
		t.Fatalf("unpacked wrong type: %T", unpacked)
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("mismatch: %+v  original: %+v", back, record)
	}

	// an invalid pass class must be rejected before packing
	record.PassClasses = []string{"no.dots"}
	if _, err := record.Pack(); fault.InvalidTokenId != err {
		t.Fatalf("invalid pass class accepted: %v", err)
	}

	// an event without any pass class is meaningless
	record.PassClasses = nil
	if _, err := record.Pack(); fault.InvalidItem != err {
		t.Fatalf("empty pass class list accepted: %v", err)
	}
}

func TestMetadataPackUnpack(t *testing.T) {
	record := &tokenrecord.Metadata{
		Name:      "Festival Credits",
		Symbol:    "FEST",
		Decimals:  2,
		Reference: "https://example.com/contract",
	}

	packed, err := record.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	back, ok := unpacked.(*tokenrecord.Metadata)
	if !ok {
		t.Fatalf("unpacked wrong type: %T", unpacked)
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("mismatch: %+v  original: %+v", back, record)
	}
}

func TestUnpackGarbage(t *testing.T) {
	garbage := []tokenrecord.Packed{
		nil,
		{},
		{0xff, 0xff, 0xff},        // truncated varint tag
		{byte(0)},                 // null tag
		{byte(6)},                 // invalid tag
		{byte(3), 0x05, 'a', 'b'}, // token owner cut short
	}
	for i, packed := range garbage {
		if _, err := packed.Unpack(); nil == err {
			t.Errorf("garbage %d unpacked", i)
		}
	}
}

func TestApprovalHelpers(t *testing.T) {
	token := &tokenrecord.Token{
		Owner: "dora",
	}

	first := token.SetApproval("market")
	second := token.SetApproval("eric")
	if 0 != first || 1 != second {
		t.Fatalf("ids: %d %d", first, second)
	}

	// replacing an approval issues a fresh id
	replaced := token.SetApproval("market")
	if 2 != replaced {
		t.Fatalf("replacement id: %d", replaced)
	}
	if id, ok := token.ApprovalFor("market"); !ok || 2 != id {
		t.Fatalf("approval for market: %d %v", id, ok)
	}

	if !token.RevokeApproval("eric") {
		t.Fatal("revoke failed")
	}
	if token.RevokeApproval("eric") {
		t.Fatal("double revoke succeeded")
	}

	if n := token.ClearApprovals(); 1 != n {
		t.Fatalf("cleared: %d", n)
	}

	// the counter survives clearing so old ids stay dead
	if next := token.SetApproval("market"); 3 != next {
		t.Fatalf("id after clear: %d", next)
	}
}
