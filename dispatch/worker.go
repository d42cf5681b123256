// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/fault"
)

// worker - drains the task queue
type worker struct {
	log *logger.L
}

// Run - process tasks until shutdown
func (w *worker) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case task := <-globalData.tasks:
			w.process(task)
		}
	}
	log.Info("stopped")
}

// run one task: the hook in isolation, then the reconciliation
func (w *worker) process(task Task) {
	defer globalData.idle.Done()

	execErr := w.executeIsolated(task)
	w.resolveIsolated(task, execErr)
}

// a panicking hook must not take down the worker, the panic becomes
// an Execute failure so reconciliation still runs
func (w *worker) executeIsolated(task Task) (err error) {
	defer func() {
		if r := recover(); nil != r {
			w.log.Errorf("receiver hook panic: %v", r)
			err = fault.ReceiverPanic
		}
	}()
	return task.Execute()
}

// reconciliation is written to never fail, a panic here indicates a
// bug so it is logged loudly and the task is dropped
func (w *worker) resolveIsolated(task Task, execErr error) {
	defer func() {
		if r := recover(); nil != r {
			w.log.Criticalf("resolve panic: %v", r)
		}
	}()
	task.Resolve(execErr)
}
