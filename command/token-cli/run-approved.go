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

func runApproved(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tokenId := c.String("token-id")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	grantee := c.String("grantee")
	if "" == grantee {
		return fmt.Errorf("missing grantee name")
	}

	approvalId, err := parseApprovalId(c.String("approval-id"))
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.CheckApproval(tokenId, grantee, approvalId)
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
