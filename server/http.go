// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
)

// Server runs an echo instance on a plain HTTP listener. TLS is expected to
// be terminated in front of the adapter.
type Server struct {
	context context.Context
	name    string
	echo    *echo.Echo
	server  *http.Server
}

func NewServer(ctx context.Context, echo *echo.Echo, name string, port uint16) Server {
	log := context.CtxGetLog(ctx).With("server", name)
	ctx = context.CtxWithLog(ctx, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ConnContext:       adjustConnContext,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return Server{context: ctx, name: name, echo: echo, server: srv}
}

func (s Server) Start(quit chan error) {
	log := context.CtxGetLog(s.context)
	go func() {
		if err := s.echo.StartServer(s.server); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
			quit <- fmt.Errorf("failed to start server %s: %w", s.name, err)
		}
	}()
	go func() {
		// Echo holds its lock from StartServer until the port is bound, so
		// GetAddress below waits for it. Give StartServer a head start.
		time.Sleep(time.Millisecond * 2)
		if addr := s.GetAddress(); addr != "" {
			log.Info("server started", "addr", addr)
		}
	}()
}

func (s Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(s.context, timeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		log := context.CtxGetLog(s.context)
		log.Error("error stopping server", "error", err)
	}
}

func (s Server) GetAddress() (ret string) {
	// ListenerAddr waits for the server to start; nil when it failed to.
	if addr := s.echo.ListenerAddr(); addr != nil {
		ret = addr.String()
	}
	return
}

func adjustConnContext(ctx context.Context, conn net.Conn) context.Context {
	cid := random.String(10)
	log := context.CtxGetLog(ctx).With("conn_id", cid, "remote", conn.RemoteAddr().String())
	return context.CtxWithLog(ctx, log)
}
