// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// kipubank runs the vault ledger daemon: a pebble-backed custodial ledger
// exposed over JSON-RPC, with prometheus metrics on /metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Anitsuga/KipuBank/config"
	"github.com/Anitsuga/KipuBank/consts"
	"github.com/Anitsuga/KipuBank/pebble"
	"github.com/Anitsuga/KipuBank/rpc"
	"github.com/Anitsuga/KipuBank/server"
	"github.com/Anitsuga/KipuBank/sink"
	"github.com/Anitsuga/KipuBank/state"
	"github.com/Anitsuga/KipuBank/vault"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	parser := argparse.NewParser(consts.Name, "per-account custodial vault ledger")
	configPath := parser.String("c", "config", &argparse.Options{
		Help: "path to JSON config file",
	})
	printVersion := parser.Flag("v", "version", &argparse.Options{
		Help: "print version and exit",
	})
	if err := parser.Parse(os.Args); err != nil {
		return errors.New(parser.Usage(err))
	}
	if *printVersion {
		fmt.Printf("%s@%s\n", consts.Name, consts.Version)
		return nil
	}

	var raw []byte
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			return err
		}
		raw = b
	}
	cfg, err := config.New(raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, perms.ReadWriteExecute); err != nil {
		return err
	}
	logDir := path.Join(cfg.DataDir, cfg.LogDir)
	if err := os.MkdirAll(logDir, perms.ReadWriteExecute); err != nil {
		return err
	}
	log := logging.NewLogger(
		consts.Name,
		logging.NewWrappedCore(
			cfg.LogLevel,
			os.Stderr,
			logging.Colors.ConsoleEncoder(),
		),
		logging.NewWrappedCore(
			cfg.LogLevel,
			&lumberjack.Logger{
				Filename:   path.Join(logDir, consts.Name+".log"),
				MaxSize:    8, // megabytes
				MaxAge:     7, // days
				MaxBackups: 4,
				Compress:   true,
			},
			logging.JSON.FileEncoder(),
		),
	)

	db, dbRegistry, err := pebble.New(path.Join(cfg.DataDir, "db"), pebble.NewDefaultConfig())
	if err != nil {
		return err
	}

	var transferSink vault.TransferSink
	if cfg.SinkURI == "" {
		log.Warn("no settlement sink configured; transfers settle out of band")
		transferSink = sink.Discard{}
	} else {
		transferSink = sink.NewJSONRPC(cfg.SinkURI)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, vaultRegistry, err := vault.New(
		ctx,
		log,
		state.FromDatabase(db),
		transferSink,
		cfg.BankCap,
		cfg.WithdrawLimit,
	)
	if err != nil {
		return err
	}

	if err := v.Audit(ctx); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort))
	if err != nil {
		return err
	}
	srv := server.New(
		log,
		listener,
		cfg.HTTPConfig,
		cfg.AllowedOrigins,
		cfg.AllowedHosts,
		cfg.ShutdownTimeout,
	)

	handler, err := server.NewHandler(rpc.NewJSONRPCServer(v, log), rpc.Name)
	if err != nil {
		return err
	}
	if err := srv.AddRoute(handler, strings.TrimPrefix(rpc.JSONRPCEndpoint, "/")); err != nil {
		return err
	}
	metricsHandler := promhttp.HandlerFor(
		prometheus.Gatherers{dbRegistry, vaultRegistry},
		promhttp.HandlerOpts{},
	)
	if err := srv.AddRoute(metricsHandler, "metrics"); err != nil {
		return err
	}

	log.Info("vault ledger started",
		zap.String("address", listener.Addr().String()),
		zap.Uint64("bankCap", cfg.BankCap),
		zap.Uint64("withdrawLimit", cfg.WithdrawLimit),
		zap.Stringer("version", consts.Version),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Dispatch()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return errors.Join(srv.Shutdown(), db.Close())
	})
	return g.Wait()
}
