// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/approvals"
)

// ApprovalData - the parameters for approval operations
type ApprovalData struct {
	TokenId string
	Caller  string
	Grantee string
}

// Approve - authorise an account to transfer a token
func (client *Client) Approve(approvalConfig *ApprovalData) (*approvals.GrantReply, error) {

	grantArgs := approvals.GrantArguments{
		TokenId: approvalConfig.TokenId,
		Caller:  approvalConfig.Caller,
		Grantee: approvalConfig.Grantee,
	}

	client.printJson("Grant Request", grantArgs)

	reply := &approvals.GrantReply{}
	err := client.client.Call("Approval.Grant", grantArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Grant Reply", reply)

	return reply, nil
}

// Revoke - remove one transfer authorisation
func (client *Client) Revoke(approvalConfig *ApprovalData) (*approvals.RevokeReply, error) {

	revokeArgs := approvals.GrantArguments{
		TokenId: approvalConfig.TokenId,
		Caller:  approvalConfig.Caller,
		Grantee: approvalConfig.Grantee,
	}

	client.printJson("Revoke Request", revokeArgs)

	reply := &approvals.RevokeReply{}
	err := client.client.Call("Approval.Revoke", revokeArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Revoke Reply", reply)

	return reply, nil
}

// RevokeAll - remove every transfer authorisation on a token
func (client *Client) RevokeAll(tokenId string, caller string) (*approvals.RevokeAllReply, error) {

	revokeArgs := approvals.RevokeAllArguments{
		TokenId: tokenId,
		Caller:  caller,
	}

	client.printJson("RevokeAll Request", revokeArgs)

	reply := &approvals.RevokeAllReply{}
	err := client.client.Call("Approval.RevokeAll", revokeArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("RevokeAll Reply", reply)

	return reply, nil
}

// CheckApproval - query a transfer authorisation, optionally pinned
// to an exact approval id
func (client *Client) CheckApproval(tokenId string, grantee string, approvalId *uint64) (*approvals.CheckReply, error) {

	checkArgs := approvals.CheckArguments{
		TokenId:    tokenId,
		Grantee:    grantee,
		ApprovalId: approvalId,
	}

	client.printJson("Check Request", checkArgs)

	reply := &approvals.CheckReply{}
	err := client.client.Call("Approval.Check", checkArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Check Reply", reply)

	return reply, nil
}
