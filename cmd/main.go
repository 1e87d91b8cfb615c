// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/sharp-rmf/door-adapter-dormakaba/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/context"
)

type CommonArgs struct {
	Config   string `arg:"--config,env:DOOR_ADAPTER_CONFIG" default:"/etc/door-adapter.yaml" help:"Adapter configuration file"`
	LogLevel string `arg:"--log-level" help:"debug, info, warning or error (default: $LOG_LEVEL or info)"`

	Serve     *ServeCmd     `arg:"subcommand:serve" help:"Run the door adapter REST API"`
	Probe     *ProbeCmd     `arg:"subcommand:probe" help:"Check connectivity to the vendor cloud for the configured doors"`
	HashToken *HashTokenCmd `arg:"subcommand:hash-token" help:"Print the server.token_hash value for an API token"`

	ctx context.Context
	out io.Writer
}

func (a CommonArgs) loadConfig() (*config.Config, error) {
	return config.Load(a.Config)
}

func main() {
	args := CommonArgs{out: os.Stdout}
	p := arg.MustParse(&args)

	log, err := context.InitLogger(args.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
		return
	}
	args.ctx = context.CtxWithLog(context.Background(), log)

	switch {
	case args.Serve != nil:
		err = args.Serve.Run(args)
	case args.Probe != nil:
		err = args.Probe.Run(args)
	case args.HashToken != nil:
		err = args.HashToken.Run(args)
	default:
		p.Fail("missing required subcommand")
	}
	if err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
