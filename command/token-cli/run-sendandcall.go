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

func runSendAndCall(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	from := c.String("from")
	if "" == from {
		return fmt.Errorf("missing sender name")
	}

	to := c.String("to")
	if "" == to {
		return fmt.Errorf("missing receiver name")
	}

	amount := c.Uint64("amount")
	if 0 == amount {
		return fmt.Errorf("invalid amount: %d", amount)
	}

	if m.verbose {
		fmt.Fprintf(m.e, "from: %s\n", from)
		fmt.Fprintf(m.e, "to: %s\n", to)
		fmt.Fprintf(m.e, "amount: %d\n", amount)
		fmt.Fprintf(m.e, "budget: %d\n", c.Uint64("budget"))
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	sendConfig := &rpccalls.SendData{
		From:   from,
		To:     to,
		Amount: amount,
		Memo:   c.String("memo"),
		Budget: c.Uint64("budget"),
	}

	response, err := client.SendAndCall(sendConfig)
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
