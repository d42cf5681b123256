// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/counter"
	"github.com/keeperhq/tokend/eventlog"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/rpc/ratelimit"
)

const (
	maximumEventCount = 100
	rateLimitNode     = 200
	rateBurstNode     = 100
)

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	counter *counter.Counter
}

// New - create the node service
func New(log *logger.L, start time.Time, version string, counter *counter.Counter) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		counter: counter,
	}
}

// Node.Info
// ---------

// InfoReply - daemon status
type InfoReply struct {
	Version     string `json:"version"`
	Mode        string `json:"mode"`
	Network     string `json:"network"`
	Uptime      string `json:"uptime"`
	Connections uint64 `json:"connections"`
	Events      uint64 `json:"events,string"`
}

// Info - daemon status report
func (node *Node) Info(arguments *struct{}, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	if mode.Is(mode.Normal) {
		reply.Mode = mode.Normal.String()
	} else if mode.Is(mode.Resynchronise) {
		reply.Mode = mode.Resynchronise.String()
	} else {
		reply.Mode = mode.Stopped.String()
	}
	reply.Network = mode.NetworkName()
	reply.Uptime = time.Since(node.Start).String()
	reply.Connections = node.counter.Uint64()
	reply.Events = eventlog.Length(nil)
	return nil
}

// Node.Events
// -----------

// EventsArguments - fetch a page of the event log
type EventsArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// EventsReply - one page of hash chained log entries
type EventsReply struct {
	Events []eventlog.Entry `json:"events"`
	Next   uint64           `json:"next,string"`
}

// Events - fetch structured log entries in sequence order
func (node *Node) Events(arguments *EventsArguments, reply *EventsReply) error {
	if err := ratelimit.LimitN(node.Limiter, arguments.Count, maximumEventCount); nil != err {
		return err
	}
	node.Log.Infof("Node.Events: %+v", arguments)

	entries, err := eventlog.Fetch(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Events = entries
	if n := len(entries); n > 0 {
		reply.Next = entries[n-1].Seq + 1
	} else {
		reply.Next = arguments.Start
	}
	return nil
}
