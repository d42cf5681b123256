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

func runSetMetadata(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	symbol := c.String("symbol")
	if "" == symbol {
		return fmt.Errorf("missing symbol")
	}

	keyFile := c.String("key")
	if "" == keyFile {
		return fmt.Errorf("missing authority key file")
	}

	name := c.String("name")
	decimals := c.Uint64("decimals")
	reference := c.String("reference")

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	nonce, signature, err := signRequest(client, keyFile, admin.OpSetMetadata,
		name, symbol, strconv.FormatUint(decimals, 10), reference)
	if nil != err {
		return err
	}

	response, err := client.SetMetadata(&admins.SetMetadataArguments{
		Name:      name,
		Symbol:    symbol,
		Decimals:  decimals,
		Reference: reference,
		Nonce:     nonce,
		Signature: signature,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
