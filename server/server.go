// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server is the ledger's HTTP front: one router shared by the
// JSON-RPC service and the metrics handler, behind host filtering, CORS, and
// gzip.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeHeaderTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

type Server struct {
	log logging.Logger

	shutdownTimeout time.Duration

	router   *router
	srv      *http.Server
	listener net.Listener
}

func New(
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	allowedHosts []string,
	shutdownTimeout time.Duration,
) *Server {
	router := newRouter()
	var handler http.Handler = filterInvalidHosts(router, allowedHosts)
	handler = cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(handler)
	handler = gziphandler.GzipHandler(handler)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
	)

	return &Server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

// Dispatch serves on the listener until Shutdown.
func (s *Server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

// AddRoute mounts [handler] at "/"+[base].
func (s *Server) AddRoute(handler http.Handler, base string) error {
	url := "/" + base
	s.log.Info("adding route",
		zap.String("url", url),
	)
	return s.router.AddRouter(url, "", handler)
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
