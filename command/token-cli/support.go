// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
)

// decode an optional approval id flag
// returns nil when the flag is absent
func parseApprovalId(s string) (*uint64, error) {
	if "" == s {
		return nil, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return nil, err
	}
	return &id, nil
}
