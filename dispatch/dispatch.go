// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dispatch - deferred execution of receiver hooks
//
// a transfer-and-call operation applies its state change first and
// queues the receiver notification here; the queue worker runs the
// hook in isolation and always runs the task's reconciliation
// afterwards, whatever the hook did, including panicking
package dispatch

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/background"
	"github.com/keeperhq/tokend/fault"
)

// Task - one queued notification and its reconciliation
type Task interface {
	// Execute - run the receiver hook, a panic is converted into an
	// error for Resolve
	Execute() error

	// Resolve - reconcile the optimistic state change, runs exactly
	// once for every task, the argument is the Execute failure or nil
	Resolve(execErr error)
}

// size of the task queue
const taskQueueSize = 100

// globals
type dispatchData struct {
	sync.RWMutex

	log *logger.L

	receivers map[string]Receiver

	tasks chan Task

	// tracks queued but unresolved tasks
	idle sync.WaitGroup

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData dispatchData

// Initialise - start the queue worker
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("dispatch")
	globalData.log.Info("starting…")

	globalData.receivers = make(map[string]Receiver)
	globalData.tasks = make(chan Task, taskQueueSize)

	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		&worker{log: logger.New("dispatch-worker")},
	}

	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	globalData.initialised = false
	return nil
}

// Enqueue - add a task for the queue worker
//
// the caller must already have applied its optimistic state change
func Enqueue(task Task) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.idle.Add(1)
	globalData.tasks <- task
	return nil
}

// WaitIdle - block until every queued task has been resolved
func WaitIdle() {
	globalData.idle.Wait()
}
