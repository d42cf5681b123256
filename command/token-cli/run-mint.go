// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/command/token-cli/rpccalls"
	"github.com/keeperhq/tokend/rpc/admins"
)

func runMint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	to := c.String("to")
	if "" == to {
		return fmt.Errorf("missing receiver name")
	}

	amount := c.Uint64("amount")
	if 0 == amount {
		return fmt.Errorf("invalid amount: %d", amount)
	}

	keyFile := c.String("key")
	if "" == keyFile {
		return fmt.Errorf("missing authority key file")
	}

	if m.verbose {
		fmt.Fprintf(m.e, "to: %s\n", to)
		fmt.Fprintf(m.e, "amount: %d\n", amount)
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	nonce, signature, err := signRequest(client, keyFile, admin.OpMint,
		to, strconv.FormatUint(amount, 10))
	if nil != err {
		return err
	}

	response, err := client.Mint(&admins.MintArguments{
		To:        to,
		Amount:    amount,
		Nonce:     nonce,
		Signature: signature,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
