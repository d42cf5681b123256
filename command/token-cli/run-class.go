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

func runClass(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	classId := c.String("class-id")
	if "" == classId {
		return fmt.Errorf("missing class id")
	}

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetClass(&rpccalls.ClassData{
		ClassId: classId,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
