// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/auth"
	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/dormakaba"
	"github.com/sharp-rmf/door-adapter-dormakaba/events"
	"github.com/sharp-rmf/door-adapter-dormakaba/server/api"
	"github.com/sharp-rmf/door-adapter-dormakaba/storage"
	"github.com/sharp-rmf/door-adapter-dormakaba/storage/journal"
)

type ServeCmd struct {
	startedCb   func(address string)
	clientOpts  []dormakaba.Option
	stopTimeout time.Duration

	Port uint16 `help:"Listen port, overrides server.port"`
}

func (c *ServeCmd) Run(args CommonArgs) error {
	cfg, err := args.loadConfig()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	log := context.CtxGetLog(args.ctx)

	fs, err := storage.NewFs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load filesystem: %w", err)
	}
	db, err := storage.NewDb(fs.Config.DbFile())
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()
	strg, err := journal.NewStorage(db)
	if err != nil {
		return fmt.Errorf("failed to load journal storage: %w", err)
	}

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.Events.NatsURL != "" {
		if pub, err = events.NewNATSPublisher(cfg.Events.NatsURL); err != nil {
			return err
		}
		log.Info("publishing door events", "nats", cfg.Events.NatsURL, "prefix", cfg.Events.SubjectPrefix)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("failed to close event publisher", "error", err)
		}
	}()

	var verifier *auth.Verifier
	if cfg.Server.TokenHash != "" {
		if verifier, err = auth.NewVerifier(cfg.Server.TokenHash); err != nil {
			return fmt.Errorf("invalid server.token_hash: %w", err)
		}
	} else {
		log.Warn("server.token_hash is not set, the API is open to anyone who can reach it")
	}

	// Signals also cut the startup probes short.
	ctx, stop := signal.NotifyContext(args.ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	doors := adapter.Connect(ctx, cfg, c.clientOpts...)
	a := adapter.New(args.ctx, doors,
		adapter.WithJournal(strg),
		adapter.WithPublisher(pub, cfg.Events.SubjectPrefix),
		adapter.WithStateCacheTTL(cfg.Server.StateCacheTTL.Duration),
		adapter.WithPollInterval(cfg.Server.PollInterval.Duration),
	)
	srv := api.NewServer(args.ctx, a, cfg.Server.Port, api.Options{
		Verifier:  verifier,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})

	quitErr := make(chan error, 1)
	srv.Start(quitErr)

	if c.startedCb != nil {
		// Testing code, see serve_test.go
		time.Sleep(time.Millisecond * 2)
		c.startedCb(srv.GetAddress())
	}

	select {
	case err = <-quitErr:
	case <-ctx.Done():
		log.Info("shutting down")
	}

	timeout := c.stopTimeout
	if timeout == 0 {
		timeout = time.Minute
	}
	srv.Shutdown(timeout)
	return err
}
