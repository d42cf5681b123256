// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"strconv"
	"time"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/tokenrecord"
)

// operation names as embedded in signed request messages
const (
	OpMint               = "mint"
	OpSetMetadata        = "set-metadata"
	OpRegisterClass      = "register-class"
	OpRegisterEvent      = "register-event"
	OpIssue              = "issue"
	OpApproveMarketplace = "approve-marketplace"
	OpRevokeMarketplace  = "revoke-marketplace"
	OpCreateSubAccount   = "create-sub-account"
	OpUnregister         = "unregister"
)

// run one administrative operation inside a storage transaction
//
// the nonce fence, the operation and its event log entry commit or
// abort as a unit
func execute(nonce uint64, signature []byte, operation string, kind eventlog.Kind, arguments []string, apply func(trx storage.Transaction, now uint64) (string, error)) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	err = verifyRequest(trx, nonce, signature, operation, arguments...)
	if nil != err {
		trx.Abort()
		return err
	}

	now := uint64(time.Now().Unix())
	detail, err := apply(trx, now)
	if nil != err {
		trx.Abort()
		return err
	}

	_, err = eventlog.Append(trx, now, kind, globalData.contractAccount, detail)
	if nil != err {
		trx.Abort()
		return err
	}

	return trx.Commit()
}

// Mint - create new supply on an account
func Mint(to string, amount uint64, nonce uint64, signature []byte) error {
	arguments := []string{to, strconv.FormatUint(amount, 10)}
	return execute(nonce, signature, OpMint, eventlog.KindMint, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		err := ledger.Mint(trx, to, amount)
		if nil != err {
			return "", err
		}
		return to + " " + strconv.FormatUint(amount, 10), nil
	})
}

// SetMetadata - store the contract level metadata
func SetMetadata(metadata *tokenrecord.Metadata, nonce uint64, signature []byte) error {
	arguments := []string{
		metadata.Name,
		metadata.Symbol,
		strconv.FormatUint(metadata.Decimals, 10),
		metadata.Reference,
	}
	return execute(nonce, signature, OpSetMetadata, eventlog.KindMetadata, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		err := ledger.SetMetadata(trx, metadata)
		if nil != err {
			return "", err
		}
		return metadata.Symbol, nil
	})
}

// RegisterClass - register a new token class
//
// the creator recorded on the class is always the contract account
func RegisterClass(classId string, class *tokenrecord.Class, nonce uint64, signature []byte) error {
	arguments := []string{classId, class.Reference}
	return execute(nonce, signature, OpRegisterClass, eventlog.KindClass, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		class.Creator = globalData.contractAccount
		err := registry.RegisterClass(trx, classId, class)
		if nil != err {
			return "", err
		}
		return classId, nil
	})
}

// RegisterEvent - register a new event with its pass classes
func RegisterEvent(eventId string, event *tokenrecord.Event, nonce uint64, signature []byte) error {
	arguments := append([]string{eventId}, event.PassClasses...)
	return execute(nonce, signature, OpRegisterEvent, eventlog.KindEvent, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		event.Organiser = globalData.contractAccount
		err := registry.RegisterEvent(trx, eventId, event)
		if nil != err {
			return "", err
		}
		return eventId, nil
	})
}

// Issue - issue the next instance of a class to an owner
//
// returns the new token id
func Issue(classId string, owner string, nonce uint64, signature []byte) (string, error) {
	tokenId := ""
	arguments := []string{classId, owner}
	err := execute(nonce, signature, OpIssue, eventlog.KindIssue, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		var err error
		tokenId, err = registry.Issue(trx, classId, owner, now)
		if nil != err {
			return "", err
		}
		return tokenId + " " + owner, nil
	})
	if nil != err {
		return "", err
	}
	return tokenId, nil
}

// ApproveMarketplace - add an account to the marketplace allow-list
func ApproveMarketplace(name string, nonce uint64, signature []byte) error {
	arguments := []string{name}
	return execute(nonce, signature, OpApproveMarketplace, eventlog.KindMarketplace, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		err := registry.ApproveMarketplace(trx, name, globalData.contractAccount)
		if nil != err {
			return "", err
		}
		return name, nil
	})
}

// RevokeMarketplace - remove an account from the marketplace
// allow-list
func RevokeMarketplace(name string, nonce uint64, signature []byte) error {
	arguments := []string{name}
	return execute(nonce, signature, OpRevokeMarketplace, eventlog.KindMarketplace, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		registry.RevokeMarketplace(trx, name)
		return name, nil
	})
}

// CreateSubAccount - register a sub-account of the contract account
//
// the new account starts with a zero balance; its optional authority
// key may later sign its own requests
func CreateSubAccount(label string, userAuthority []byte, nonce uint64, signature []byte) (string, error) {
	name, err := account.SubAccount(label, globalData.contractAccount)
	if nil != err {
		return "", err
	}

	arguments := []string{label}
	err = execute(nonce, signature, OpCreateSubAccount, eventlog.KindRegister, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		err := ledger.Register(trx, name, globalData.contractAccount, userAuthority, now)
		if nil != err {
			return "", err
		}
		return name, nil
	})
	if nil != err {
		return "", err
	}
	return name, nil
}

// Unregister - remove an account
//
// without force the account must hold a zero balance; with force any
// remaining balance is burned.  Returns the amount burned.
func Unregister(name string, force bool, nonce uint64, signature []byte) (uint64, error) {
	burned := uint64(0)
	arguments := []string{name, strconv.FormatBool(force)}
	err := execute(nonce, signature, OpUnregister, eventlog.KindUnregister, arguments, func(trx storage.Transaction, now uint64) (string, error) {
		var err error
		burned, err = ledger.Unregister(trx, name, force)
		if nil != err {
			return "", err
		}
		return name + " " + strconv.FormatUint(burned, 10), nil
	})
	if nil != err {
		return 0, err
	}
	return burned, nil
}
