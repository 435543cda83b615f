// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/Anitsuga/KipuBank/server"
)

type Config struct {
	// Ledger parameters, fixed for the life of the data directory.
	BankCap       uint64 `json:"bankCap"`
	WithdrawLimit uint64 `json:"withdrawLimit"`

	// SinkURI is the settlement service endpoint. Empty runs the dev sink,
	// which settles nothing.
	SinkURI string `json:"sinkURI"`

	DataDir string `json:"dataDir"`

	HTTPHost        string            `json:"httpHost"`
	HTTPPort        uint16            `json:"httpPort"`
	HTTPConfig      server.HTTPConfig `json:"httpConfig"`
	AllowedOrigins  []string          `json:"allowedOrigins"`
	AllowedHosts    []string          `json:"allowedHosts"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout"`

	LogLevel logging.Level `json:"logLevel"`
	LogDir   string        `json:"logDir"`
}

func New(b []byte) (*Config, error) {
	c := &Config{
		BankCap:       1_000_000_000_000,
		WithdrawLimit: 1_000_000_000,
		DataDir:       ".kipubank",
		HTTPHost:      "127.0.0.1",
		HTTPPort:      8547,
		HTTPConfig: server.HTTPConfig{
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"*"},
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        logging.Info,
		LogDir:          "logs",
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}
