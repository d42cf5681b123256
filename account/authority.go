// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/keeperhq/tokend/fault"
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	authorityCode = 0x01
	testCode      = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm

	// the only supported algorithm
	ed25519Algorithm = 0x01
)

// Authority - a public key that can authorise administrative requests
//
// the text form is Base58(variant byte || public key || checksum)
// where the checksum is the first 4 bytes of SHA3-256 over the
// preceding bytes
type Authority struct {
	Test      bool
	PublicKey []byte
}

// NewAuthority - wrap an ed25519 public key
func NewAuthority(publicKey []byte, test bool) (*Authority, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidKeyLength
	}
	return &Authority{
		Test:      test,
		PublicKey: publicKey,
	}, nil
}

// AuthorityFromBase58 - convert the Base58 text form back to an authority
func AuthorityFromBase58(s string) (*Authority, error) {
	decoded, err := base58.Decode(s)
	if nil != err {
		return nil, fault.CannotDecodeAuthority
	}

	if len(decoded) < 1+checksumLength {
		return nil, fault.CannotDecodeAuthority
	}

	variant := decoded[0]
	if authorityCode != variant&authorityCode {
		return nil, fault.CannotDecodeAuthority
	}
	if ed25519Algorithm != variant>>algorithmShift {
		return nil, fault.CannotDecodeAuthority
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	publicKey := decoded[1:checksumStart]
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidKeyLength
	}

	return &Authority{
		Test:      0 != variant&testCode,
		PublicKey: publicKey,
	}, nil
}

// Bytes - the variant byte followed by the raw public key
func (a *Authority) Bytes() []byte {
	variant := byte(authorityCode | ed25519Algorithm<<algorithmShift)
	if a.Test {
		variant |= testCode
	}
	buffer := make([]byte, 0, 1+len(a.PublicKey))
	buffer = append(buffer, variant)
	return append(buffer, a.PublicKey...)
}

// String - Base58 text form with checksum
func (a *Authority) String() string {
	buffer := a.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// MarshalText - for JSON and configuration output
func (a Authority) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - decode the Base58 text form
func (a *Authority) UnmarshalText(s []byte) error {
	decoded, err := AuthorityFromBase58(string(s))
	if nil != err {
		return err
	}
	a.Test = decoded.Test
	a.PublicKey = decoded.PublicKey
	return nil
}

// CheckSignature - verify an ed25519 signature over a message
func (a *Authority) CheckSignature(message []byte, signature []byte) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(a.PublicKey), message, signature) {
		return fault.InvalidSignature
	}
	return nil
}
