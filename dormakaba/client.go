// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package dormakaba

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
)

const (
	DefaultProbeAttempts = 6
	DefaultProbeInterval = time.Second
	DefaultProbeTimeout  = time.Second

	maxErrorBody = 512
)

// Config identifies one door in the vendor cloud and how to reach it.
type Config struct {
	URL             string
	AuthHeaderName  string
	AuthHeaderValue string
	DoorId          string

	// RequestTimeout bounds open, close and status calls. Zero leaves them
	// to the transport, which may block indefinitely.
	RequestTimeout time.Duration

	// Startup probe policy; zero values select the defaults above.
	ProbeAttempts int
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

type Option func(*Client)

// WithTransport replaces the base transport. The API key header is still
// added on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithSleep replaces the pause between probe attempts.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// Client talks to the vendor cloud on behalf of a single door. It is safe
// for concurrent use.
type Client struct {
	context context.Context
	cfg     Config
	base    http.RoundTripper
	http    *http.Client
	sleep   func(context.Context, time.Duration) error

	connected bool
}

// NewClient builds a client from the four values the fleet adapter is
// configured with and runs the startup probe.
func NewClient(url, authHeaderName, authHeaderValue, doorId string) *Client {
	return New(context.Background(), Config{
		URL:             url,
		AuthHeaderName:  authHeaderName,
		AuthHeaderValue: authHeaderValue,
		DoorId:          doorId,
	})
}

// New creates the client and blocks until the startup probe either succeeds
// or runs out of attempts. The outcome is only recorded, see Connected.
func New(ctx context.Context, cfg Config, opts ...Option) *Client {
	if cfg.ProbeAttempts <= 0 {
		cfg.ProbeAttempts = DefaultProbeAttempts
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = DefaultProbeInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	log := context.CtxGetLog(ctx).With("door", cfg.DoorId)
	c := &Client{
		context: context.WithoutCancel(ctx),
		cfg:     cfg,
		base:    http.DefaultTransport,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{
		Transport: &headerTransport{
			Name:      cfg.AuthHeaderName,
			Value:     cfg.AuthHeaderValue,
			Transport: c.base,
		},
	}

	log.Info("door config", "url", cfg.URL, "header", cfg.AuthHeaderName, "door_id", cfg.DoorId)
	c.connected = c.probe(ctx)
	return c
}

func (c *Client) probe(ctx context.Context) bool {
	log := context.CtxGetLog(ctx).With("door", c.cfg.DoorId)
	for attempt := 1; ; attempt++ {
		if c.CheckConnectionContext(ctx) {
			return true
		}
		if attempt >= c.cfg.ProbeAttempts {
			log.Error("unable to connect to vendor cloud API after several retries", "attempts", attempt)
			return false
		}
		log.Warn("unable to connect to vendor cloud API, attempting to reconnect", "attempt", attempt)
		if err := c.sleep(ctx, c.cfg.ProbeInterval); err != nil {
			log.Error("connectivity probe aborted", "error", err)
			return false
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Connected reports whether the startup probe reached the vendor. It is
// informational: no operation consults it.
func (c *Client) Connected() bool {
	return c.connected
}

func (c *Client) DoorId() string {
	return c.cfg.DoorId
}

func (c *Client) CheckConnection() bool {
	return c.CheckConnectionContext(c.context)
}

// CheckConnectionContext sends a status request bounded by the probe timeout
// and reports whether any non-error answer came back. The body is ignored.
func (c *Client) CheckConnectionContext(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()
	if err := c.post(ctx, pathStatus, statusRequest{Id: c.cfg.DoorId}, nil); err != nil {
		c.logFailure(ctx, "connection error", err)
		return false
	}
	return true
}

func (c *Client) OpenDoor() bool {
	return c.OpenContext(c.context).OK()
}

func (c *Client) CloseDoor() bool {
	return c.CloseContext(c.context).OK()
}

func (c *Client) GetMode() door.Mode {
	return c.ModeContext(c.context)
}

func (c *Client) OpenContext(ctx context.Context) door.Outcome {
	context.CtxGetLog(ctx).Info("trigger door open", "door", c.cfg.DoorId)
	return c.command(ctx, actionQuickOpen)
}

func (c *Client) CloseContext(ctx context.Context) door.Outcome {
	context.CtxGetLog(ctx).Info("trigger door close", "door", c.cfg.DoorId)
	return c.command(ctx, actionClose)
}

func (c *Client) command(ctx context.Context, action string) door.Outcome {
	ctx, cancel := c.withRequestTimeout(ctx)
	defer cancel()

	var resp commandResponse
	if err := c.post(ctx, pathRemoteOpen, commandRequest{Id: c.cfg.DoorId, DoorAction: action}, &resp); err != nil {
		c.logFailure(ctx, "connection error", err, "action", action)
		return door.UnreachableWith(err)
	}
	log := context.CtxGetLog(ctx).With("door", c.cfg.DoorId, "action", action)
	if resp.StatusCode == nil {
		log.Warn("door could not perform action", "reason", "response has no statusCode")
		return door.RejectedWith(0)
	}
	if code := *resp.StatusCode; code != http.StatusOK {
		log.Warn("door could not perform action", "statusCode", code)
		return door.RejectedWith(int(code))
	}
	return door.Succeeded()
}

// ModeContext queries the vendor for the current door state. Every failure
// degrades to door.ModeUnknown.
func (c *Client) ModeContext(ctx context.Context) door.Mode {
	ctx, cancel := c.withRequestTimeout(ctx)
	defer cancel()

	var resp statusResponse
	if err := c.post(ctx, pathStatus, statusRequest{Id: c.cfg.DoorId}, &resp); err != nil {
		c.logFailure(ctx, "connection error", err, "action", "status")
		return door.ModeUnknown
	}
	if resp.Body == nil {
		return door.ModeUnknown
	}
	mode := door.ModeFromVendorState(resp.Body.DoorState)
	if mode == door.ModeUnknown && resp.Body.DoorState != nil {
		context.CtxGetLog(ctx).Debug("unrecognized vendor door state", "door", c.cfg.DoorId, "state", *resp.Body.DoorState)
	}
	return mode
}

func (c *Client) withRequestTimeout(ctx context.Context) (context.Context, func()) {
	if c.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.RequestTimeout)
	}
	return ctx, func() {}
}

// post sends payload as JSON and decodes the answer into result when it is
// not nil. Transport errors, 4xx/5xx answers and undecodable bodies are all
// returned as errors.
func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			context.CtxGetLog(ctx).Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		buf, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HttpStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(buf))}
	}
	if result == nil {
		// A body that stalls past the deadline is a read timeout, not a success.
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %w", errInvalidResponse, err)
	}
	return nil
}

func (c *Client) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append([]any{"door", c.cfg.DoorId, "kind", failureKind(err), "error", err}, args...)
	context.CtxGetLog(ctx).Error(msg, args...)
}
