// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package dormakaba

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type headerTransport struct {
	Name      string
	Value     string
	Transport http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface in a way which adds
// the vendor API key header to each request.
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
	if t.Name != "" {
		req2.Header.Set(t.Name, t.Value)
	}
	req2.Header.Set("Content-Type", "application/json")

	// req.Body is assumed to be closed by the base RoundTripper.
	reqBodyClosed = true
	return t.Transport.RoundTrip(req2)
}

// OAuth2Config describes the client credentials grant some vendor tenants use
// instead of a static API key header.
type OAuth2Config struct {
	ClientId     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// NewOAuth2Transport returns a transport that fetches and refreshes a bearer
// token before every vendor call. The header key still applies on top of it.
func NewOAuth2Transport(ctx context.Context, cfg OAuth2Config, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	// The token endpoint is called through the same base transport.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	return &oauth2.Transport{
		Source: cc.TokenSource(ctx),
		Base:   base,
	}
}
