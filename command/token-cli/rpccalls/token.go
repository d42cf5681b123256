// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/keeperhq/tokend/rpc/tokens"
)

// TokenData - the parameters for a token enquiry
type TokenData struct {
	TokenId string
}

// GetToken - retrieve one token record
func (client *Client) GetToken(tokenConfig *TokenData) (*tokens.GetReply, error) {

	tokenArgs := tokens.GetArguments{
		TokenId: tokenConfig.TokenId,
	}

	client.printJson("Token Request", tokenArgs)

	reply := &tokens.GetReply{}
	err := client.client.Call("Token.Get", tokenArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Token Reply", reply)

	return reply, nil
}

// OwnedData - data for an ownership request
type OwnedData struct {
	Owner string
	Start uint64
	Count int
}

// GetOwned - obtain the list of owned tokens
func (client *Client) GetOwned(ownedConfig *OwnedData) (*tokens.OwnedReply, error) {

	ownedArgs := tokens.OwnedArguments{
		Owner: ownedConfig.Owner,
		Start: ownedConfig.Start,
		Count: ownedConfig.Count,
	}

	client.printJson("Owned Request", ownedArgs)

	reply := &tokens.OwnedReply{}
	err := client.client.Call("Token.Owned", ownedArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Owned Reply", reply)

	return reply, nil
}

// ClassData - the parameters for a class enquiry
type ClassData struct {
	ClassId string
}

// GetClass - retrieve one token class record
func (client *Client) GetClass(classConfig *ClassData) (*tokens.ClassReply, error) {

	classArgs := tokens.ClassArguments{
		ClassId: classConfig.ClassId,
	}

	client.printJson("Class Request", classArgs)

	reply := &tokens.ClassReply{}
	err := client.client.Call("Token.Class", classArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Class Reply", reply)

	return reply, nil
}

// ClassesData - paging data for a class listing
type ClassesData struct {
	After string
	Count int
}

// GetClasses - obtain the list of registered classes
func (client *Client) GetClasses(classesConfig *ClassesData) (*tokens.ClassesReply, error) {

	classesArgs := tokens.ClassesArguments{
		After: classesConfig.After,
		Count: classesConfig.Count,
	}

	client.printJson("Classes Request", classesArgs)

	reply := &tokens.ClassesReply{}
	err := client.client.Call("Token.Classes", classesArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Classes Reply", reply)

	return reply, nil
}
