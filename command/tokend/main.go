// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/account"
	"github.com/keeperhq/tokend/admin"
	"github.com/keeperhq/tokend/dispatch"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/ledger"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/registry"
	"github.com/keeperhq/tokend/rpc"
	"github.com/keeperhq/tokend/storage"
	"github.com/keeperhq/tokend/transfer"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Network)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// general info
	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)

	// start the data storage
	log.Info("initialise storage")
	mustReindex, err := storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// balance ledger - depends on storage
	log.Info("initialise ledger")
	err = ledger.Initialise(theConfiguration.MinimumBalance)
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	defer ledger.Finalise()

	// token ownership registry - depends on storage
	log.Info("initialise registry")
	err = registry.Initialise(theConfiguration.EnforceMarketplaces)
	if nil != err {
		log.Criticalf("registry initialise error: %s", err)
		exitwithstatus.Message("registry initialise error: %s", err)
	}
	defer registry.Finalise()

	// the index database is rebuildable; a version mismatch on open
	// leaves it empty and requires a full scan of the token records
	if mustReindex {
		log.Warn("rebuilding ownership index")
		err = registry.RebuildOwnershipIndex()
		if nil != err {
			log.Criticalf("ownership index rebuild error: %s", err)
			exitwithstatus.Message("ownership index rebuild error: %s", err)
		}
		err = storage.ReindexDone()
		if nil != err {
			log.Criticalf("reindex version stamp error: %s", err)
			exitwithstatus.Message("reindex version stamp error: %s", err)
		}
	}

	// append-only audit log - depends on storage
	log.Info("initialise eventlog")
	err = eventlog.Initialise()
	if nil != err {
		log.Criticalf("eventlog initialise error: %s", err)
		exitwithstatus.Message("eventlog initialise error: %s", err)
	}
	defer eventlog.Finalise()

	// verify the hash chain before accepting new entries
	err = eventlog.Verify()
	if nil != err {
		log.Criticalf("eventlog verify error: %s", err)
		exitwithstatus.Message("eventlog verify error: %s", err)
	}

	// receiver hook dispatcher - depends on mode
	log.Info("initialise dispatch")
	err = dispatch.Initialise()
	if nil != err {
		log.Criticalf("dispatch initialise error: %s", err)
		exitwithstatus.Message("dispatch initialise error: %s", err)
	}
	defer dispatch.Finalise()

	// two-phase transfer protocol - depends on ledger, registry and dispatch
	log.Info("initialise transfer")
	err = transfer.Initialise()
	if nil != err {
		log.Criticalf("transfer initialise error: %s", err)
		exitwithstatus.Message("transfer initialise error: %s", err)
	}
	defer transfer.Finalise()

	// administrative operations need the contract owner's public key
	if "" != theConfiguration.Admin.Account {
		authority, err := account.AuthorityFromBase58(theConfiguration.Admin.Authority)
		if nil != err {
			log.Criticalf("admin authority decode error: %s", err)
			exitwithstatus.Message("admin authority decode error: %s", err)
		}
		err = admin.Initialise(theConfiguration.Admin.Account, authority)
		if nil != err {
			log.Criticalf("admin initialise error: %s", err)
			exitwithstatus.Message("admin initialise error: %s", err)
		}
		defer admin.Finalise()
	} else {
		log.Warn("no admin account configured, administration is disabled")
	}

	// the certificate module needs the PEM data, not the file names
	for _, f := range []*string{
		&theConfiguration.ClientRPC.Certificate,
		&theConfiguration.ClientRPC.PrivateKey,
	} {
		data, err := ioutil.ReadFile(*f)
		if nil != err {
			log.Criticalf("certificate read error: %s", err)
			exitwithstatus.Message("certificate read error: %s", err)
		}
		*f = string(data)
	}

	// start up the rpc listeners
	err = rpc.Initialise(&theConfiguration.ClientRPC, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// all ready, mutations may now proceed
	mode.Set(mode.Normal)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)
}
