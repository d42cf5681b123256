// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/command/token-cli/rpccalls"
	"github.com/keeperhq/tokend/rpc/admins"
)

func runApproveMarketplace(c *cli.Context) error {
	return runMarketplace(c, admin.OpApproveMarketplace)
}

func runRevokeMarketplace(c *cli.Context) error {
	return runMarketplace(c, admin.OpRevokeMarketplace)
}

func runMarketplace(c *cli.Context, operation string) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return fmt.Errorf("missing marketplace name")
	}

	keyFile := c.String("key")
	if "" == keyFile {
		return fmt.Errorf("missing authority key file")
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	nonce, signature, err := signRequest(client, keyFile, operation, name)
	if nil != err {
		return err
	}

	arguments := &admins.MarketplaceArguments{
		Name:      name,
		Nonce:     nonce,
		Signature: signature,
	}

	var response *admins.OkReply
	if admin.OpApproveMarketplace == operation {
		response, err = client.ApproveMarketplace(arguments)
	} else {
		response, err = client.RevokeMarketplace(arguments)
	}
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
