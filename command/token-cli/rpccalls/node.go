// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/node"
)

// GetNodeInfo - obtain the tokend details
func (client *Client) GetNodeInfo() (*node.InfoReply, error) {

	args := struct{}{}

	reply := &node.InfoReply{}
	err := client.client.Call("Node.Info", args, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Info Reply", reply)

	return reply, nil
}

// EventsData - paging data for an audit log request
type EventsData struct {
	Start uint64
	Count int
}

// GetEvents - obtain a page of the audit log
func (client *Client) GetEvents(eventsConfig *EventsData) (*node.EventsReply, error) {

	eventsArgs := node.EventsArguments{
		Start: eventsConfig.Start,
		Count: eventsConfig.Count,
	}

	client.printJson("Events Request", eventsArgs)

	reply := &node.EventsReply{}
	err := client.client.Call("Node.Events", eventsArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Events Reply", reply)

	return reply, nil
}
