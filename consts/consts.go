// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

const (
	Name     = "kipubank"
	Symbol   = "KIPU"
	Decimals = 9

	ByteLen   = 1
	Uint64Len = 8
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
