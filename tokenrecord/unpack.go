// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokenrecord

import (
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/util"
)

// Unpack - turn a byte slice into a record
//
// must cast result to correct type
//
// e.g.
//   token, ok := result.(*tokenrecord.Token)
// or:
//   switch record := result.(type) {
//   case *tokenrecord.Token:
func (record Packed) Unpack() (Record, error) {

	recordType, n := util.FromVarint64(record)
	if 0 == n {
		return nil, fault.NotTokenRecord
	}
	buffer := record[n:]

	switch TagType(recordType) {

	case AccountTag:
		r := &Account{}
		parent, buffer, err := unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.Parent = parent

		authority, buffer, err := unpackBytes(buffer)
		if nil != err {
			return nil, err
		}
		if 0 != len(authority) {
			r.Authority = authority
		}

		r.CreatedAt, _, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		return r, nil

	case ClassTag:
		r := &Class{}
		var err error
		r.Creator, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.MaxCopies, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.CopiesIssued, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.ExpiresAt, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.ClassDeps, buffer, err = unpackStringList(buffer)
		if nil != err {
			return nil, err
		}
		r.EventDeps, buffer, err = unpackStringList(buffer)
		if nil != err {
			return nil, err
		}
		r.Reference, _, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		return r, nil

	case TokenTag:
		r := &Token{}
		var err error
		r.Owner, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.IssuedAt, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.NextApprovalId, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}

		approvalCount, buffer, err := unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		if approvalCount > maxApprovals {
			return nil, fault.NotTokenRecord
		}
		for i := uint64(0); i < approvalCount; i += 1 {
			a := Approval{}
			a.Account, buffer, err = unpackString(buffer)
			if nil != err {
				return nil, err
			}
			a.Id, buffer, err = unpackUint64(buffer)
			if nil != err {
				return nil, err
			}
			r.Approvals = append(r.Approvals, a)
		}
		return r, nil

	case EventTag:
		r := &Event{}
		var err error
		r.Organiser, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.PassClasses, buffer, err = unpackStringList(buffer)
		if nil != err {
			return nil, err
		}
		r.StartsAt, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.EndsAt, _, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		return r, nil

	case MetadataTag:
		r := &Metadata{}
		var err error
		r.Name, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.Symbol, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		r.Decimals, buffer, err = unpackUint64(buffer)
		if nil != err {
			return nil, err
		}
		r.Reference, _, err = unpackString(buffer)
		if nil != err {
			return nil, err
		}
		return r, nil

	default:
	}
	return nil, fault.NotTokenRecord
}

// read a Varint64
func unpackUint64(buffer []byte) (uint64, []byte, error) {
	value, n := util.FromVarint64(buffer)
	if 0 == n {
		return 0, nil, fault.NotTokenRecord
	}
	return value, buffer[n:], nil
}

// read a counted byte block
func unpackBytes(buffer []byte) ([]byte, []byte, error) {
	length, buffer, err := unpackUint64(buffer)
	if nil != err {
		return nil, nil, err
	}
	if length > uint64(len(buffer)) {
		return nil, nil, fault.NotTokenRecord
	}
	data := make([]byte, length)
	copy(data, buffer[:length])
	return data, buffer[length:], nil
}

// read a counted string
func unpackString(buffer []byte) (string, []byte, error) {
	data, buffer, err := unpackBytes(buffer)
	if nil != err {
		return "", nil, err
	}
	return string(data), buffer, nil
}

// read a counted list of counted strings
func unpackStringList(buffer []byte) ([]string, []byte, error) {
	count, buffer, err := unpackUint64(buffer)
	if nil != err {
		return nil, nil, err
	}
	if count > maxDependencies {
		return nil, nil, fault.NotTokenRecord
	}
	var list []string
	for i := uint64(0); i < count; i += 1 {
		var s string
		s, buffer, err = unpackString(buffer)
		if nil != err {
			return nil, nil, err
		}
		list = append(list, s)
	}
	return list, buffer, nil
}
