// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"time"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/server"
)

const serverName = "rest-api"

func NewServer(ctx Context, a *adapter.Adapter, port uint16, opts Options) *apiServer {
	e := server.NewEchoServer()
	srv := server.NewServer(ctx, e, serverName, port)
	RegisterHandlers(e, a, opts)
	return &apiServer{server: srv, adapter: a}
}

type apiServer struct {
	server  server.Server
	adapter *adapter.Adapter
}

func (s apiServer) Start(quit chan error) {
	s.adapter.Start()
	s.server.Start(quit)
}

func (s apiServer) Shutdown(timeout time.Duration) {
	s.server.Shutdown(timeout)
	s.adapter.Shutdown()
}

func (s apiServer) GetAddress() string {
	return s.server.GetAddress()
}
