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

func runTokenSend(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller := c.String("caller")
	if "" == caller {
		return fmt.Errorf("missing caller name")
	}

	to := c.String("to")
	if "" == to {
		return fmt.Errorf("missing receiver name")
	}

	tokenId := c.String("token-id")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	approvalId, err := parseApprovalId(c.String("approval-id"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "caller: %s\n", caller)
		fmt.Fprintf(m.e, "to: %s\n", to)
		fmt.Fprintf(m.e, "tokenId: %s\n", tokenId)
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	sendConfig := &rpccalls.TokenSendData{
		Caller:     caller,
		To:         to,
		TokenId:    tokenId,
		ApprovalId: approvalId,
		Memo:       c.String("memo"),
	}

	response, err := client.TokenSend(sendConfig)
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
