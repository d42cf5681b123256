// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/admins"
)

// GetAdminNonce - fetch the last accepted request nonce and the
// contract account
func (client *Client) GetAdminNonce() (*admins.NonceReply, error) {

	client.printJson("Nonce Request", struct{}{})

	reply := &admins.NonceReply{}
	err := client.client.Call("Admin.Nonce", struct{}{}, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Nonce Reply", reply)

	return reply, nil
}

// Mint - create new supply on an account
func (client *Client) Mint(mintArgs *admins.MintArguments) (*admins.MintReply, error) {

	client.printJson("Mint Request", mintArgs)

	reply := &admins.MintReply{}
	err := client.client.Call("Admin.Mint", mintArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Mint Reply", reply)

	return reply, nil
}

// SetMetadata - store the contract level metadata
func (client *Client) SetMetadata(metadataArgs *admins.SetMetadataArguments) (*admins.OkReply, error) {

	client.printJson("SetMetadata Request", metadataArgs)

	reply := &admins.OkReply{}
	err := client.client.Call("Admin.SetMetadata", metadataArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("SetMetadata Reply", reply)

	return reply, nil
}

// RegisterClass - register a new token class
func (client *Client) RegisterClass(classArgs *admins.RegisterClassArguments) (*admins.OkReply, error) {

	client.printJson("RegisterClass Request", classArgs)

	reply := &admins.OkReply{}
	err := client.client.Call("Admin.RegisterClass", classArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("RegisterClass Reply", reply)

	return reply, nil
}

// RegisterEvent - register a new event with its pass classes
func (client *Client) RegisterEvent(eventArgs *admins.RegisterEventArguments) (*admins.OkReply, error) {

	client.printJson("RegisterEvent Request", eventArgs)

	reply := &admins.OkReply{}
	err := client.client.Call("Admin.RegisterEvent", eventArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("RegisterEvent Reply", reply)

	return reply, nil
}

// Issue - issue the next instance of a class to an owner
func (client *Client) Issue(issueArgs *admins.IssueArguments) (*admins.IssueReply, error) {

	client.printJson("Issue Request", issueArgs)

	reply := &admins.IssueReply{}
	err := client.client.Call("Admin.Issue", issueArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Issue Reply", reply)

	return reply, nil
}

// ApproveMarketplace - add an account to the marketplace allow-list
func (client *Client) ApproveMarketplace(marketArgs *admins.MarketplaceArguments) (*admins.OkReply, error) {

	client.printJson("ApproveMarketplace Request", marketArgs)

	reply := &admins.OkReply{}
	err := client.client.Call("Admin.ApproveMarketplace", marketArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("ApproveMarketplace Reply", reply)

	return reply, nil
}

// RevokeMarketplace - remove an account from the marketplace
// allow-list
func (client *Client) RevokeMarketplace(marketArgs *admins.MarketplaceArguments) (*admins.OkReply, error) {

	client.printJson("RevokeMarketplace Request", marketArgs)

	reply := &admins.OkReply{}
	err := client.client.Call("Admin.RevokeMarketplace", marketArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("RevokeMarketplace Reply", reply)

	return reply, nil
}

// CreateSubAccount - register a sub-account of the contract account
func (client *Client) CreateSubAccount(subArgs *admins.CreateSubAccountArguments) (*admins.CreateSubAccountReply, error) {

	client.printJson("CreateSubAccount Request", subArgs)

	reply := &admins.CreateSubAccountReply{}
	err := client.client.Call("Admin.CreateSubAccount", subArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("CreateSubAccount Reply", reply)

	return reply, nil
}

// Unregister - remove an account
func (client *Client) Unregister(unregisterArgs *admins.UnregisterArguments) (*admins.UnregisterReply, error) {

	client.printJson("Unregister Request", unregisterArgs)

	reply := &admins.UnregisterReply{}
	err := client.client.Call("Admin.Unregister", unregisterArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Unregister Reply", reply)

	return reply, nil
}
