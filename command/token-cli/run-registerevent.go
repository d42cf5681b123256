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

func runRegisterEvent(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	eventId := c.String("event-id")
	if "" == eventId {
		return fmt.Errorf("missing event id")
	}

	passClasses := c.StringSlice("pass")
	if 0 == len(passClasses) {
		return fmt.Errorf("missing pass class")
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

	arguments := append([]string{eventId}, passClasses...)
	nonce, signature, err := signRequest(client, keyFile, admin.OpRegisterEvent, arguments...)
	if nil != err {
		return err
	}

	response, err := client.RegisterEvent(&admins.RegisterEventArguments{
		EventId:     eventId,
		PassClasses: passClasses,
		StartsAt:    c.Uint64("starts-at"),
		EndsAt:      c.Uint64("ends-at"),
		Nonce:       nonce,
		Signature:   signature,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
