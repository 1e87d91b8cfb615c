// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"errors"
	"net/http"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/sharp-rmf/door-adapter-dormakaba/auth"
	"github.com/sharp-rmf/door-adapter-dormakaba/server"
)

// requireToken rejects requests without a valid bearer token. A nil
// verifier leaves the API open.
func requireToken(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if v == nil {
			return next
		}
		return func(c echo.Context) error {
			token, err := auth.BearerToken(c.Request())
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return server.EchoError(c, err, http.StatusUnauthorized, "Authentication required")
			}
			ok, err := v.Verify(token)
			if err != nil {
				return server.EchoError(c, err, http.StatusInternalServerError, "Internal error verifying token")
			}
			if !ok {
				return server.EchoError(c, errors.New("invalid bearer token"), http.StatusUnauthorized, "Invalid token")
			}
			return next(c)
		}
	}
}

const limiterTTL = 10 * time.Minute

// ipRateLimiter keeps a token bucket per client IP. Buckets are dropped
// limiterTTL after creation, so only recently seen clients are tracked.
type ipRateLimiter struct {
	limiters cache.Cache[string, *rate.Limiter]
	r        rate.Limit
	b        int
}

func newIpRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: cache.NewCache[string, *rate.Limiter]().WithTTL(limiterTTL).WithMaxKeys(4096),
		r:        r,
		b:        b,
	}
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := i.limiters.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(i.r, i.b)
	i.limiters.Set(ip, l, 0)
	return l
}

func rateLimit(r rate.Limit, b int) echo.MiddlewareFunc {
	limiters := newIpRateLimiter(r, b)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiters.limiter(c.RealIP()).Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
