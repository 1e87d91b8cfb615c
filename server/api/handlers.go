// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/auth"
)

type handlers struct {
	adapter *adapter.Adapter
}

type Options struct {
	// Verifier checks bearer tokens, nil disables authentication.
	Verifier  *auth.Verifier
	RateLimit float64
	RateBurst int
}

func RegisterHandlers(e *echo.Echo, a *adapter.Adapter, opts Options) {
	h := handlers{adapter: a}

	e.GET("/healthz", h.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Registry(), promhttp.HandlerOpts{})))

	g := e.Group("/doors")
	if opts.RateLimit > 0 {
		g.Use(rateLimit(rate.Limit(opts.RateLimit), max(1, opts.RateBurst)))
	}
	g.Use(requireToken(opts.Verifier))

	g.GET("", h.doorList)
	g.GET("/:name/state", h.doorState)
	g.POST("/:name/request", h.doorRequest)
	g.GET("/:name/commands", h.doorCommands)
}

func (h *handlers) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "doors": len(h.adapter.List())})
}
