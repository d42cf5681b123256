// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - account identifiers
//
// An account is identified by a name: one or more dot separated
// labels, each label made of lower case letters, digits, underscore
// and hyphen.  Sub-accounts are formed by prefixing a label to the
// parent name, e.g. "alice.game" is a sub-account of "game".
package account

import (
	"strings"

	"github.com/keeperhq/tokend/fault"
)

// limits on account names
const (
	minNameLength  = 2
	maxNameLength  = 64
	labelSeparator = "."
)

// IsValidName - check the identifier grammar for an account name
func IsValidName(name string) bool {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return false
	}

	for _, label := range strings.Split(name, labelSeparator) {
		if 0 == len(label) {
			return false
		}
	scan:
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z':
				continue scan
			case c >= '0' && c <= '9':
				continue scan
			case '_' == c || '-' == c:
				continue scan
			default:
				return false
			}
		}
	}
	return true
}

// ValidateName - as IsValidName, but returning the fault error
func ValidateName(name string) error {
	if !IsValidName(name) {
		return fault.InvalidAccountName
	}
	return nil
}

// IsValidLabel - check a single label, i.e. a name without separators
func IsValidLabel(label string) bool {
	return IsValidName(label) && !strings.Contains(label, labelSeparator)
}

// SubAccount - derive the sub-account name of a parent account
func SubAccount(label string, parent string) (string, error) {
	if !IsValidLabel(label) || !IsValidName(parent) {
		return "", fault.InvalidAccountName
	}
	name := label + labelSeparator + parent
	if len(name) > maxNameLength {
		return "", fault.InvalidAccountName
	}
	return name, nil
}

// ParentOf - the parent account of a sub-account
//
// returns an empty string for a top level account
func ParentOf(name string) string {
	i := strings.Index(name, labelSeparator)
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
