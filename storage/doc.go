// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2024 KeeperHQ
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++        = concatenation of byte data
// 3. account   = account name bytes (dot separated lower case labels)
// 4. token id  = token identifier bytes: class id ++ "." ++ serial
// 5. count     = successive index value as big endian uint64 (8 bytes)
// 6. amount    = big endian uint64 (8 bytes)
// 7. *others*  = byte values of various length
//
// Data database:
//
//   A ++ account               - registered account
//                                data: packed account record
//   Q ++ account               - fungible balance
//                                data: amount
//   S ++ "SUPPLY"              - total fungible supply
//                                data: amount
//   C ++ class id              - token class
//                                data: packed class record
//   T ++ token id              - token instance
//                                data: packed token record (includes approvals)
//   E ++ event id              - registered event
//                                data: packed event record
//   M ++ account               - approved marketplace
//                                data: approving authority
//   G ++ "METADATA"            - contract metadata
//                                data: packed metadata record
//   J ++ count                 - event log entry
//                                data: previous digest ++ packed log record
//
// Index database (derived, can be dropped and rebuilt):
//
//   N ++ owner                 - next count value to use for appending to owned items
//                                data: count
//   L ++ owner ++ count        - list of owned token ids
//                                data: token id
//   D ++ owner ++ token id     - position in list of owned items, for delete after transfer
//                                data: count
//   K ++ owner ++ class id     - number of instances of a class held by owner
//                                data: count
//
// Testing:
//   Z ++ key                   - testing data
package storage
