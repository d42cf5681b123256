// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine the class of an error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - determine the class of an error
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - determine the class of an error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine the class of an error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRecord - determine the class of an error
func IsErrRecord(e error) bool { _, ok := e.(RecordError); return ok }

// common errors - keep in alphabetic order
var (
	AccountAlreadyRegistered      = ExistsError("account already registered")
	AccountNotRegistered          = NotFoundError("account not registered")
	AlreadyInitialised            = ProcessError("already initialised")
	BalanceOverflow               = ProcessError("balance overflow")
	CannotDecodeAuthority         = RecordError("cannot decode authority")
	CertificateFileAlreadyExists  = ExistsError("certificate file already exists")
	ChecksumMismatch              = ProcessError("checksum mismatch")
	DependencyNotSatisfied        = InvalidError("dependency not satisfied")
	EventAlreadyExists            = ExistsError("event already exists")
	EventNotFound                 = NotFoundError("event not found")
	InsufficientBalance           = InvalidError("insufficient balance")
	InsufficientExecutionBudget   = InvalidError("insufficient execution budget")
	InvalidAccountName            = InvalidError("invalid account name")
	InvalidCount                  = InvalidError("invalid count")
	InvalidCursor                 = InvalidError("invalid cursor")
	InvalidIpAddress              = InvalidError("invalid IP Address")
	InvalidItem                   = InvalidError("invalid item")
	InvalidKeyLength              = LengthError("invalid key length")
	InvalidNetwork                = InvalidError("invalid network")
	InvalidSignature              = InvalidError("invalid signature")
	InvalidStructPointer          = InvalidError("invalid struct pointer")
	InvalidTokenId                = InvalidError("invalid token id")
	KeyFileAlreadyExists          = ExistsError("key file already exists")
	MarketplaceNotApproved        = InvalidError("marketplace not approved")
	MissingParameters             = LengthError("missing parameters")
	NonPositiveAmount             = InvalidError("amount must be a positive number")
	NotAvailableDuringSynchronise = ProcessError("not available during synchronise")
	NotContractOwner              = InvalidError("not the contract owner")
	NotInitialised                = ProcessError("not initialised")
	NotLink                       = RecordError("not link")
	NotTokenOwner                 = InvalidError("not the token owner")
	NotTokenRecord                = RecordError("not token record")
	RateLimiting                  = ProcessError("rate limiting")
	ReceiverNotRegistered         = NotFoundError("receiver not registered")
	ReceiverPanic                 = ProcessError("receiver hook panic")
	StaleApproval                 = InvalidError("stale approval")
	StaleNonce                    = InvalidError("stale nonce")
	SupplyMismatch                = RecordError("supply mismatch")
	SupplyOverflow                = ProcessError("supply overflow")
	TokenAlreadyExists            = ExistsError("token already exists")
	TokenClassNotFound            = NotFoundError("token class not found")
	TokenExhausted                = InvalidError("all copies of this token have been issued")
	TokenExpired                  = InvalidError("token expired")
	TokenNotFound                 = NotFoundError("token not found")
	TransactionAlreadyInUse       = ProcessError("transaction already in use")
	TransferNotFound              = NotFoundError("transfer not found")
	TransferToSelf                = InvalidError("sender and receiver must be different")
	Unauthorised                  = InvalidError("unauthorised")
	UnregisterRequiresForce       = ProcessError("cannot unregister an account with a positive balance without force")
)
