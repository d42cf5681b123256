// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokenrecord

import (
	"strconv"
	"strings"

	"github.com/keeperhq/tokend/fault"
)

// limits for identifiers
const (
	minClassIdLength = 1
	maxClassIdLength = 64
)

// IsValidClassId - check the syntax of a token class identifier
//
// allowed characters are letters, digits, space, underscore and
// hyphen; the dot is reserved as the class/serial separator
func IsValidClassId(classId string) bool {
	if len(classId) < minClassIdLength || len(classId) > maxClassIdLength {
		return false
	}
	for _, c := range classId {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case ' ' == c || '_' == c || '-' == c:
		default:
			return false
		}
	}
	return true
}

// TokenId - build the identifier of an instance of a class
func TokenId(classId string, serial uint64) string {
	return classId + "." + strconv.FormatUint(serial, 10)
}

// ParseTokenId - split a token identifier into class and serial
func ParseTokenId(tokenId string) (string, uint64, error) {
	i := strings.LastIndexByte(tokenId, '.')
	if i < 0 {
		return "", 0, fault.InvalidTokenId
	}
	classId := tokenId[:i]
	if !IsValidClassId(classId) {
		return "", 0, fault.InvalidTokenId
	}
	serial, err := strconv.ParseUint(tokenId[i+1:], 10, 64)
	if nil != err {
		return "", 0, fault.InvalidTokenId
	}
	return classId, serial, nil
}

// IsValidTokenId - check the syntax of a token instance identifier
func IsValidTokenId(tokenId string) bool {
	_, _, err := ParseTokenId(tokenId)
	return nil == err
}
