// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.NotZero(c.BankCap)
	require.NotZero(c.WithdrawLimit)
	require.Equal(uint16(8547), c.HTTPPort)
	require.Empty(c.SinkURI)
}

func TestOverrides(t *testing.T) {
	require := require.New(t)

	c, err := New([]byte(`{
		"bankCap": 500,
		"withdrawLimit": 10,
		"httpPort": 9000,
		"sinkURI": "http://settlement:8080"
	}`))
	require.NoError(err)
	require.Equal(uint64(500), c.BankCap)
	require.Equal(uint64(10), c.WithdrawLimit)
	require.Equal(uint16(9000), c.HTTPPort)
	require.Equal("http://settlement:8080", c.SinkURI)

	// Untouched fields keep their defaults.
	require.Equal("127.0.0.1", c.HTTPHost)
}

func TestMalformed(t *testing.T) {
	require := require.New(t)

	_, err := New([]byte(`{`))
	require.Error(err)
}
