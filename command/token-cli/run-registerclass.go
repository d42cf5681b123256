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

func runRegisterClass(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	classId := c.String("class-id")
	if "" == classId {
		return fmt.Errorf("missing class id")
	}

	keyFile := c.String("key")
	if "" == keyFile {
		return fmt.Errorf("missing authority key file")
	}

	reference := c.String("reference")

	client, err := rpccalls.NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	nonce, signature, err := signRequest(client, keyFile, admin.OpRegisterClass, classId, reference)
	if nil != err {
		return err
	}

	response, err := client.RegisterClass(&admins.RegisterClassArguments{
		ClassId:   classId,
		MaxCopies: c.Uint64("max-copies"),
		ExpiresAt: c.Uint64("expires-at"),
		ClassDeps: c.StringSlice("class-dep"),
		EventDeps: c.StringSlice("event-dep"),
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
