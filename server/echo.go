// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
)

func NewEchoServer() *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Use(contextLogger())
	server.Use(middlewareLogger())
	server.Use(middleware.Recover())
	return server
}

func middlewareLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError: true, // the global error handler picks the status code
		LogError:    true,
		LogLatency:  true,
		LogMethod:   true,
		LogRemoteIP: true,
		LogStatus:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := context.CtxGetLog(c.Request().Context())
			args := []any{
				"method", v.Method,
				"route", c.Path(),
				"status", v.Status,
				"remote_ip", v.RemoteIP,
				"latency_ms", v.Latency.Round(time.Microsecond).Seconds() * 1000,
			}
			if door := c.Param("name"); door != "" {
				args = append(args, "door", door)
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}
			// Polling clients hit /doors constantly; rejected calls stand out at warn.
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error("response", args...)
			case v.Status >= http.StatusBadRequest:
				log.Warn("response", args...)
			default:
				log.Info("response", args...)
			}
			return nil
		},
	})
}

func contextLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			ctx := req.Context()
			log := context.CtxGetLog(ctx)

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = random.String(12)
			}
			res.Header().Set(echo.HeaderXRequestID, rid)
			log = log.With("req_id", rid, "uri", req.RequestURI)
			ctx = context.CtxWithLog(ctx, log)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
