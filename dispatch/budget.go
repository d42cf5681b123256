// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"github.com/keeperhq/tokend/fault"
)

// execution budget costs in abstract units
//
// the reconciliation share is reserved before the hook runs so a hook
// that exhausts its budget can never starve its own clean-up
const (
	ResolveReserve = 5
	MinimumBudget  = ResolveReserve + 5
	DefaultBudget  = 30
	MaximumBudget  = 300
)

// Budget - remaining execution allowance handed to a receiver hook
type Budget struct {
	remaining uint64
}

// NewBudget - validate a requested budget and reserve the
// reconciliation share
//
// this is a precondition check: it must be called before any state is
// mutated so a short budget aborts the whole operation cleanly
func NewBudget(requested uint64) (*Budget, error) {
	if requested < MinimumBudget || requested > MaximumBudget {
		return nil, fault.InsufficientExecutionBudget
	}
	return &Budget{
		remaining: requested - ResolveReserve,
	}, nil
}

// Spend - consume budget units
func (b *Budget) Spend(units uint64) error {
	if units > b.remaining {
		b.remaining = 0
		return fault.InsufficientExecutionBudget
	}
	b.remaining -= units
	return nil
}

// Remaining - unconsumed units
func (b *Budget) Remaining() uint64 {
	return b.remaining
}
