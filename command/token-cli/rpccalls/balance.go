// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/balances"
)

// BalanceData - the parameters for a balance request
type BalanceData struct {
	Account string
}

// GetBalance - retrieve the balance of one account
func (client *Client) GetBalance(balanceConfig *BalanceData) (*balances.GetReply, error) {

	balanceArgs := balances.GetArguments{
		Account: balanceConfig.Account,
	}

	client.printJson("Balance Request", balanceArgs)

	reply := &balances.GetReply{}
	err := client.client.Call("Ledger.Get", balanceArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Balance Reply", reply)

	return reply, nil
}

// GetRegistered - check the registration state of an account
func (client *Client) GetRegistered(balanceConfig *BalanceData) (*balances.RegisteredReply, error) {

	registeredArgs := balances.GetArguments{
		Account: balanceConfig.Account,
	}

	client.printJson("Registered Request", registeredArgs)

	reply := &balances.RegisteredReply{}
	err := client.client.Call("Ledger.Registered", registeredArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Registered Reply", reply)

	return reply, nil
}

// GetSupply - retrieve the total fungible supply
func (client *Client) GetSupply() (*balances.SupplyReply, error) {

	args := struct{}{}

	reply := &balances.SupplyReply{}
	err := client.client.Call("Ledger.Supply", args, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Supply Reply", reply)

	return reply, nil
}

// GetMetadata - retrieve the contract level metadata
func (client *Client) GetMetadata() (*balances.MetadataReply, error) {

	args := struct{}{}

	reply := &balances.MetadataReply{}
	err := client.client.Call("Ledger.Metadata", args, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Metadata Reply", reply)

	return reply, nil
}

// GetMinimumBalance - retrieve the registration deposit bounds
func (client *Client) GetMinimumBalance() (*balances.MinimumBalanceReply, error) {

	args := struct{}{}

	reply := &balances.MinimumBalanceReply{}
	err := client.client.Call("Ledger.MinimumBalance", args, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("MinimumBalance Reply", reply)

	return reply, nil
}
