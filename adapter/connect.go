// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package adapter

import (
	"net/http"
	"sync"

	"github.com/sharp-rmf/door-adapter-dormakaba/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/dormakaba"
)

// ClientConfig converts the vendor section of the configuration into the
// client settings of one door.
func ClientConfig(vendor config.VendorConfig, doorId string) dormakaba.Config {
	return dormakaba.Config{
		URL:             vendor.URL,
		AuthHeaderName:  vendor.AuthHeaderName,
		AuthHeaderValue: vendor.AuthHeaderValue,
		DoorId:          doorId,
		RequestTimeout:  vendor.RequestTimeout.Duration,
		ProbeAttempts:   vendor.ProbeAttempts,
		ProbeInterval:   vendor.ProbeInterval.Duration,
		ProbeTimeout:    vendor.ProbeTimeout.Duration,
	}
}

// Connect creates a vendor client for every configured door. The startup
// probes run in parallel, so the call takes as long as the slowest door.
func Connect(ctx context.Context, cfg *config.Config, opts ...dormakaba.Option) map[string]Door {
	if o := cfg.Vendor.OAuth2; o != nil {
		rt := dormakaba.NewOAuth2Transport(ctx, dormakaba.OAuth2Config{
			ClientId:     o.ClientId,
			ClientSecret: o.ClientSecret,
			TokenURL:     o.TokenURL,
			Scopes:       o.Scopes,
		}, http.DefaultTransport)
		opts = append([]dormakaba.Option{dormakaba.WithTransport(rt)}, opts...)
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		doors = make(map[string]Door, len(cfg.Doors))
	)
	for _, d := range cfg.Doors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log := context.CtxGetLog(ctx).With("door_name", d.Name)
			client := dormakaba.New(context.CtxWithLog(ctx, log), ClientConfig(cfg.Vendor, d.DoorId), opts...)
			mu.Lock()
			doors[d.Name] = client
			mu.Unlock()
		}()
	}
	wg.Wait()
	return doors
}
