// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/transfers"
	"github.com/keeperhq/tokend/transfer"
)

// SendData - the parameters for a fungible transfer
type SendData struct {
	From   string
	To     string
	Amount uint64
	Memo   string
	Budget uint64 // only for send-and-call, zero selects the default
}

// Send - synchronous fungible transfer
func (client *Client) Send(sendConfig *SendData) (*transfers.SendReply, error) {

	sendArgs := transfers.SendArguments{
		From:   sendConfig.From,
		To:     sendConfig.To,
		Amount: sendConfig.Amount,
		Memo:   sendConfig.Memo,
	}

	client.printJson("Send Request", sendArgs)

	reply := &transfers.SendReply{}
	err := client.client.Call("Transfer.Send", sendArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Send Reply", reply)

	return reply, nil
}

// SendAndCall - fungible transfer with receiver hook
func (client *Client) SendAndCall(sendConfig *SendData) (*transfers.SendAndCallReply, error) {

	sendArgs := transfers.SendAndCallArguments{
		From:   sendConfig.From,
		To:     sendConfig.To,
		Amount: sendConfig.Amount,
		Memo:   sendConfig.Memo,
		Budget: sendConfig.Budget,
	}

	client.printJson("SendAndCall Request", sendArgs)

	reply := &transfers.SendAndCallReply{}
	err := client.client.Call("Transfer.SendAndCall", sendArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("SendAndCall Reply", reply)

	return reply, nil
}

// TokenSendData - the parameters for a token transfer
type TokenSendData struct {
	Caller     string
	To         string
	TokenId    string
	ApprovalId *uint64
	Memo       string
	Budget     uint64 // only for token-send-and-call
}

// TokenSend - synchronous token transfer
func (client *Client) TokenSend(sendConfig *TokenSendData) (*transfers.SendReply, error) {

	sendArgs := transfers.TokenSendArguments{
		Caller:     sendConfig.Caller,
		To:         sendConfig.To,
		TokenId:    sendConfig.TokenId,
		ApprovalId: sendConfig.ApprovalId,
		Memo:       sendConfig.Memo,
	}

	client.printJson("TokenSend Request", sendArgs)

	reply := &transfers.SendReply{}
	err := client.client.Call("Transfer.TokenSend", sendArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("TokenSend Reply", reply)

	return reply, nil
}

// TokenSendAndCall - token transfer with receiver hook
func (client *Client) TokenSendAndCall(sendConfig *TokenSendData) (*transfers.SendAndCallReply, error) {

	sendArgs := transfers.TokenSendArguments{
		Caller:     sendConfig.Caller,
		To:         sendConfig.To,
		TokenId:    sendConfig.TokenId,
		ApprovalId: sendConfig.ApprovalId,
		Memo:       sendConfig.Memo,
		Budget:     sendConfig.Budget,
	}

	client.printJson("TokenSendAndCall Request", sendArgs)

	reply := &transfers.SendAndCallReply{}
	err := client.client.Call("Transfer.TokenSendAndCall", sendArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("TokenSendAndCall Reply", reply)

	return reply, nil
}

// GetStatus - retrieve the state of an asynchronous transfer
func (client *Client) GetStatus(transferId uint64) (*transfer.Record, error) {

	statusArgs := transfers.StatusArguments{
		TransferId: transferId,
	}

	client.printJson("Status Request", statusArgs)

	reply := &transfer.Record{}
	err := client.client.Call("Transfer.Status", statusArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Status Reply", reply)

	return reply, nil
}
