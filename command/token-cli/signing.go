// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"strings"

	"golang.org/x/crypto/ed25519"

	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/command/token-cli/rpccalls"
)

// read the hex encoded authority private key written by the daemon
// setup command
func readPrivateKey(keyFile string) (ed25519.PrivateKey, error) {
	data, err := ioutil.ReadFile(keyFile)
	if nil != err {
		return nil, err
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if nil != err {
		return nil, err
	}
	if ed25519.PrivateKeySize != len(key) {
		return nil, fmt.Errorf("invalid private key length: %d", len(key))
	}
	return ed25519.PrivateKey(key), nil
}

// sign the canonical request message for one administrative call
//
// the nonce is one past the last nonce the node reports as accepted,
// so each invocation produces exactly one usable request
func signRequest(client *rpccalls.Client, keyFile string, operation string, arguments ...string) (uint64, string, error) {
	key, err := readPrivateKey(keyFile)
	if nil != err {
		return 0, "", err
	}

	nonceReply, err := client.GetAdminNonce()
	if nil != err {
		return 0, "", err
	}
	nonce := nonceReply.LastNonce + 1

	message := admin.RequestMessage(nonce, operation, arguments...)
	return nonce, hex.EncodeToString(ed25519.Sign(key, message)), nil
}
