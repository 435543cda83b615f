// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var ErrInvalidAccount = errors.New("invalid account")
