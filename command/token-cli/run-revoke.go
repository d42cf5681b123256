// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/keeperhq/tokend/command/token-cli/rpccalls"
)

func runRevoke(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tokenId := c.String("token-id")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	caller := c.String("caller")
	if "" == caller {
		return fmt.Errorf("missing caller name")
	}

	grantee := c.String("grantee")
	if "" == grantee {
		return fmt.Errorf("missing grantee name")
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Revoke(&rpccalls.ApprovalData{
		TokenId: tokenId,
		Caller:  caller,
		Grantee: grantee,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}

func runRevokeAll(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tokenId := c.String("token-id")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	caller := c.String("caller")
	if "" == caller {
		return fmt.Errorf("missing caller name")
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.RevokeAll(tokenId, caller)
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
