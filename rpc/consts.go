// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "github.com/Anitsuga/KipuBank/consts"

const (
	Name            = consts.Name
	JSONRPCEndpoint = "/kipubank"
)
