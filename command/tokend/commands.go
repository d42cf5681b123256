// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"golang.org/x/crypto/ed25519"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/fault"
	"github.com/keeperhq/tokend/util"
)

const (
	rpcCertificateFilename = "rpc.crt"
	rpcPrivateKeyFilename  = "rpc.key"

	authorityPrivateKeyFilename = "authority.private"
	authorityLiveFilename       = "authority.live"
	authorityTestFilename       = "authority.test"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-authority", "auth":
		privateKeyFilename := getFilenameWithDirectory(arguments, authorityPrivateKeyFilename)
		liveFilename := getFilenameWithDirectory(arguments, authorityLiveFilename)
		testFilename := getFilenameWithDirectory(arguments, authorityTestFilename)

		if util.EnsureFileExists(privateKeyFilename) {
			fmt.Printf("generate private key: %q error: %s\n", privateKeyFilename, fault.KeyFileAlreadyExists)
			exitwithstatus.Exit(1)
		}

		publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if nil != err {
			fmt.Printf("generate private key: %q error: %s\n", privateKeyFilename, err)
			exitwithstatus.Exit(1)
		}

		if err := ioutil.WriteFile(privateKeyFilename, []byte(hex.EncodeToString(privateKey)+"\n"), 0600); nil != err {
			fmt.Printf("generate private key: %q error: %s\n", privateKeyFilename, err)
			goto authority_failed
		}

		for _, out := range []struct {
			filename string
			test     bool
		}{
			{liveFilename, false},
			{testFilename, true},
		} {
			authority, err := account.NewAuthority(publicKey, out.test)
			if nil != err {
				fmt.Printf("generate authority: %q error: %s\n", out.filename, err)
				goto authority_failed
			}
			if err := ioutil.WriteFile(out.filename, []byte(authority.String()+"\n"), 0644); nil != err {
				fmt.Printf("generate authority: %q error: %s\n", out.filename, err)
				goto authority_failed
			}
		}

		fmt.Printf("generated private key: %q\n", privateKeyFilename)
		fmt.Printf("generated authorities: %q and %q\n", liveFilename, testFilename)
		return true

	authority_failed:
		_ = os.Remove(privateKeyFilename)
		_ = os.Remove(liveFilename)
		_ = os.Remove(testFilename)
		exitwithstatus.Exit(1)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-authority [DIR]        (auth)   - create private key in: %q\n", "DIR/"+authorityPrivateKeyFilename)
		fmt.Printf("                                        and authorities in:    %q and: %q\n", "DIR/"+authorityLiveFilename, "DIR/"+authorityTestFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			fmt.Printf("configuration marshal error: %s\n", err)
			exitwithstatus.Exit(1)
		}
		var out map[string]interface{}
		if err := json.Unmarshal(b, &out); nil != err {
			fmt.Printf("configuration unmarshal error: %s\n", err)
			exitwithstatus.Exit(1)
		}
		pretty, err := json.MarshalIndent(out, "", "  ")
		if nil != err {
			fmt.Printf("configuration marshal error: %s\n", err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("%s\n", pretty)
		return true

	default:
		return false // continue processing
	}
}

// prepend an optional directory argument to a default file name
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 && "" != arguments[0] {
		dir = arguments[0]
	}
	return filepath.Join(dir, name)
}
