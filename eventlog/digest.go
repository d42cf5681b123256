// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventlog

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/keeperhq/tokend/fault"
)

// DigestLength - number of bytes in a log digest
const DigestLength = 32

// Digest - SHA3-256 over a stored log entry
//
// each entry embeds the digest of its predecessor so any rewrite of
// history breaks the chain
type Digest [DigestLength]byte

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return Digest(sha3.Sum256(record))
}

// String - convert a digest to big endian hex string for use by the
// fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(DigestLength)
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if hex.EncodedLen(DigestLength) != len(s) {
		return fault.NotLink
	}
	byteCount, err := hex.Decode(digest[:], s)
	if nil != err {
		return err
	}
	if DigestLength != byteCount {
		return fault.NotLink
	}
	return nil
}
