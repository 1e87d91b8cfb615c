// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/dormakaba"
)

type ProbeCmd struct {
	clientOpts []dormakaba.Option

	Door string `arg:"--door" help:"Only probe this door"`
}

// Run runs the startup probe of every selected door, then asks each one for
// its mode. It fails when any door could not be reached.
func (c ProbeCmd) Run(args CommonArgs) error {
	cfg, err := args.loadConfig()
	if err != nil {
		return err
	}
	if c.Door != "" {
		d, err := cfg.Door(c.Door)
		if err != nil {
			return err
		}
		cfg.Doors = []config.DoorConfig{*d}
	}

	a := adapter.New(args.ctx, adapter.Connect(args.ctx, cfg, c.clientOpts...), adapter.WithPollInterval(0))
	w := tabwriter.NewWriter(args.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOOR ID\tPROBE\tMODE")
	failed := 0
	for _, d := range a.List() {
		probe, mode := "ok", "-"
		if d.Connected {
			if st, err := a.State(args.ctx, d.Name); err == nil {
				mode = st.ModeName
			}
		} else {
			probe = "failed"
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.DoorId, probe, mode)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d doors could not reach the vendor cloud", failed, len(cfg.Doors))
	}
	return nil
}
