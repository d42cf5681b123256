// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect string
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "token-cli"
	// app.Usage = ""
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "",
			Usage:  " tokend host/IP and port, `HOST:PORT`",
			EnvVar: "TOKEND_CONNECT",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "balance",
			Usage:     "display the balance of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account name `ACCOUNT`",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "registered",
			Usage:     "check whether an account is registered",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account name `ACCOUNT`",
				},
			},
			Action: runRegistered,
		},
		{
			Name:   "supply",
			Usage:  "display the total fungible supply",
			Action: runSupply,
		},
		{
			Name:   "metadata",
			Usage:  "display the contract metadata",
			Action: runMetadata,
		},
		{
			Name:   "minimum-balance",
			Usage:  "display the registration deposit bounds",
			Action: runMinimumBalance,
		},
		{
			Name:      "token",
			Usage:     "display one token record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token-id, t",
					Value: "",
					Usage: "*token id `TOKEN_ID`",
				},
			},
			Action: runToken,
		},
		{
			Name:      "owned",
			Usage:     "list tokens owned by an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account name `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " start point `COUNT`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runOwned,
		},
		{
			Name:      "class",
			Usage:     "display one token class record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "class-id, i",
					Value: "",
					Usage: "*class id `CLASS_ID`",
				},
			},
			Action: runClass,
		},
		{
			Name:  "classes",
			Usage: "list registered token classes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "after, a",
					Value: "",
					Usage: " class id to continue after `CLASS_ID`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runClasses,
		},
		{
			Name:      "send",
			Usage:     "send an amount to another account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from, f",
					Value: "",
					Usage: "*account name of the sender `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*account name of the receiver `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "amount, a",
					Value: 0,
					Usage: "*amount to send `NUMBER`",
				},
				cli.StringFlag{
					Name:  "memo, m",
					Value: "",
					Usage: " memo to pass to the receiver `STRING`",
				},
			},
			Action: runSend,
		},
		{
			Name:      "send-and-call",
			Usage:     "send an amount and run the receiver hook",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from, f",
					Value: "",
					Usage: "*account name of the sender `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*account name of the receiver `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "amount, a",
					Value: 0,
					Usage: "*amount to send `NUMBER`",
				},
				cli.StringFlag{
					Name:  "memo, m",
					Value: "",
					Usage: " memo to pass to the receiver `STRING`",
				},
				cli.Uint64Flag{
					Name:  "budget, b",
					Value: 0,
					Usage: " execution budget, zero for the default `NUMBER`",
				},
			},
			Action: runSendAndCall,
		},
		{
			Name:      "token-send",
			Usage:     "transfer a token to another account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "caller, f",
					Value: "",
					Usage: "*account name of the caller `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*account name of the receiver `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id to transfer `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "approval-id, p",
					Value: "",
					Usage: " approval id when sending for another owner `NUMBER`",
				},
				cli.StringFlag{
					Name:  "memo, m",
					Value: "",
					Usage: " memo to pass to the receiver `STRING`",
				},
			},
			Action: runTokenSend,
		},
		{
			Name:      "token-send-and-call",
			Usage:     "transfer a token and run the receiver hook",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "caller, f",
					Value: "",
					Usage: "*account name of the caller `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*account name of the receiver `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id to transfer `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "approval-id, p",
					Value: "",
					Usage: " approval id when sending for another owner `NUMBER`",
				},
				cli.StringFlag{
					Name:  "memo, m",
					Value: "",
					Usage: " memo to pass to the receiver `STRING`",
				},
				cli.Uint64Flag{
					Name:  "budget, b",
					Value: 0,
					Usage: " execution budget, zero for the default `NUMBER`",
				},
			},
			Action: runTokenSendAndCall,
		},
		{
			Name:      "status",
			Usage:     "display the status of an asynchronous transfer",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "transfer-id, t",
					Value: 0,
					Usage: "*transfer id to check status `NUMBER`",
				},
			},
			Action: runStatus,
		},
		{
			Name:      "approve",
			Usage:     "authorise an account to transfer a token",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "caller, f",
					Value: "",
					Usage: "*account name of the owner `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "grantee, g",
					Value: "",
					Usage: "*account name to authorise `ACCOUNT`",
				},
			},
			Action: runApprove,
		},
		{
			Name:      "revoke",
			Usage:     "remove one transfer authorisation",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "caller, f",
					Value: "",
					Usage: "*account name of the owner `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "grantee, g",
					Value: "",
					Usage: "*account name to revoke `ACCOUNT`",
				},
			},
			Action: runRevoke,
		},
		{
			Name:      "revoke-all",
			Usage:     "remove every transfer authorisation on a token",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "caller, f",
					Value: "",
					Usage: "*account name of the owner `ACCOUNT`",
				},
			},
			Action: runRevokeAll,
		},
		{
			Name:      "approved",
			Usage:     "check a transfer authorisation",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token-id, i",
					Value: "",
					Usage: "*token id `TOKEN_ID`",
				},
				cli.StringFlag{
					Name:  "grantee, g",
					Value: "",
					Usage: "*account name to check `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "approval-id, p",
					Value: "",
					Usage: " approval id to pin `NUMBER`",
				},
			},
			Action: runApproved,
		},
		{
			Name:      "mint",
			Usage:     "create new supply on an account (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*account name of the receiver `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "amount, a",
					Value: 0,
					Usage: "*amount to mint `NUMBER`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runMint,
		},
		{
			Name:      "set-metadata",
			Usage:     "store the contract metadata (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: " display name `STRING`",
				},
				cli.StringFlag{
					Name:  "symbol, s",
					Value: "",
					Usage: "*currency symbol `STRING`",
				},
				cli.Uint64Flag{
					Name:  "decimals, d",
					Value: 0,
					Usage: " decimal places `NUMBER`",
				},
				cli.StringFlag{
					Name:  "reference, r",
					Value: "",
					Usage: " off-ledger metadata URI `STRING`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runSetMetadata,
		},
		{
			Name:      "register-class",
			Usage:     "register a new token class (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "class-id, i",
					Value: "",
					Usage: "*class id `CLASS_ID`",
				},
				cli.Uint64Flag{
					Name:  "max-copies, m",
					Value: 0,
					Usage: " issuance cap, zero for unlimited `NUMBER`",
				},
				cli.Uint64Flag{
					Name:  "expires-at, e",
					Value: 0,
					Usage: " expiry as unix seconds, zero for never `NUMBER`",
				},
				cli.StringSliceFlag{
					Name:  "class-dep, d",
					Usage: " prerequisite class, repeatable `CLASS_ID`",
				},
				cli.StringSliceFlag{
					Name:  "event-dep, v",
					Usage: " prerequisite event, repeatable `EVENT_ID`",
				},
				cli.StringFlag{
					Name:  "reference, r",
					Value: "",
					Usage: " off-ledger metadata URI `STRING`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runRegisterClass,
		},
		{
			Name:      "register-event",
			Usage:     "register a new event (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "event-id, i",
					Value: "",
					Usage: "*event id `EVENT_ID`",
				},
				cli.StringSliceFlag{
					Name:  "pass, p",
					Usage: "*pass class, repeatable `CLASS_ID`",
				},
				cli.Uint64Flag{
					Name:  "starts-at, s",
					Value: 0,
					Usage: " start as unix seconds `NUMBER`",
				},
				cli.Uint64Flag{
					Name:  "ends-at, e",
					Value: 0,
					Usage: " end as unix seconds `NUMBER`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runRegisterEvent,
		},
		{
			Name:      "issue",
			Usage:     "issue the next instance of a class (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "class-id, i",
					Value: "",
					Usage: "*class id `CLASS_ID`",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account name of the new owner `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runIssue,
		},
		{
			Name:      "approve-marketplace",
			Usage:     "add an account to the marketplace allow-list (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*marketplace account name `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runApproveMarketplace,
		},
		{
			Name:      "revoke-marketplace",
			Usage:     "remove an account from the marketplace allow-list (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*marketplace account name `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runRevokeMarketplace,
		},
		{
			Name:      "create-account",
			Usage:     "register a sub-account of the contract account (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "label, l",
					Value: "",
					Usage: "*label of the new sub-account `LABEL`",
				},
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " base58 authority of the new account `AUTHORITY`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runCreateAccount,
		},
		{
			Name:      "unregister",
			Usage:     "remove an account (owner signed)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account name to remove `ACCOUNT`",
				},
				cli.BoolFlag{
					Name:  "force, f",
					Usage: " burn any remaining balance",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*authority private key file `FILE`",
				},
			},
			Action: runUnregister,
		},
		{
			Name:   "info",
			Usage:  "display tokend status",
			Action: runInfo,
		},
		{
			Name:  "events",
			Usage: "list entries of the audit log",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " start sequence number `NUMBER`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runEvents,
		},
		{
			Name:  "version",
			Usage: "display token-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// check the connection target
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// no connection needed for these
		command := c.Args().Get(0)
		if "version" == command {
			return nil
		}

		connect := c.GlobalString("connect")
		if "" == connect {
			return fmt.Errorf("connect is not set, use --connect or TOKEND_CONNECT")
		}

		if verbose {
			fmt.Fprintf(e, "connect: %q\n", connect)
		}

		c.App.Metadata["config"] = &metadata{
			connect: connect,
			verbose: verbose,
			e:       e,
			w:       w,
		}

		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
