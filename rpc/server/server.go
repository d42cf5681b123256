// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/keeperhq/tokend/counter"
	"github.com/keeperhq/tokend/mode"
	"github.com/keeperhq/tokend/rpc/admins"
	"github.com/keeperhq/tokend/rpc/approvals"
	"github.com/keeperhq/tokend/rpc/balances"
	"github.com/keeperhq/tokend/rpc/node"
	"github.com/keeperhq/tokend/rpc/tokens"
	"github.com/keeperhq/tokend/rpc/transfers"
)

// Create - register all services on a new RPC server
func Create(log *logger.L, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(balances.New(log))
	_ = server.Register(tokens.New(log))
	_ = server.Register(transfers.New(log, mode.Is))
	_ = server.Register(approvals.New(log, mode.Is))
	_ = server.Register(admins.New(log, mode.Is))
	_ = server.Register(node.New(log, start, version, rpcCount))

	return server
}
