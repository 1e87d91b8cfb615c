// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/config"
)

// Door commands wait for the vendor cloud, give them room.
const clientTimeout = 30 * time.Second

const userAgent = "doorctl"

type Api struct {
	URL string

	Client *http.Client
}

func NewClient(appCtx config.Context) *Api {
	return &Api{
		URL: strings.TrimRight(appCtx.URL, "/"),
		Client: &http.Client{
			Transport: &headerTransport{Token: appCtx.Token, Transport: http.DefaultTransport},
			Timeout:   clientTimeout,
		},
	}
}

type apiKey struct{}

// CtxGetApi returns the client stored by the root command. Subcommands run
// after PersistentPreRunE, so a missing client is a programming error.
func CtxGetApi(ctx context.Context) *Api {
	return ctx.Value(apiKey{}).(*Api)
}

func CtxWithApi(ctx context.Context, api *Api) context.Context {
	return context.WithValue(ctx, apiKey{}, api)
}

type headerTransport struct {
	Token     string
	Transport http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface in a way which adds
// the user agent and, when the context has a token, the Authorization header
// to each request.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqBodyClosed := false
	if req.Body != nil {
		defer func() {
			if !reqBodyClosed {
				if err := req.Body.Close(); err != nil {
					slog.Error("failed to close request body", "error", err)
				}
			}
		}()
	}

	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", userAgent)
	if t.Token != "" {
		req2.Header.Set("Authorization", "Bearer "+t.Token)
	}

	// req.Body is assumed to be closed by the base RoundTripper.
	reqBodyClosed = true
	return t.Transport.RoundTrip(req2)
}
