// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
	"github.com/sharp-rmf/door-adapter-dormakaba/cli/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/cli/subcommands/doors"
	"github.com/sharp-rmf/door-adapter-dormakaba/cli/subcommands/login"
)

var rootCmd = &cobra.Command{
	Use:   "doorctl",
	Short: "A command line interface to the door adapter",
	Long: `doorctl lists, queries and operates the doors served by a
door adapter, and shows the journal of commands sent to them.

Configuration is stored in $DOORCTL_CONFIG, or $HOME/.config/doorctl.yaml
when it is unset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config logic for login command
		if cmd.Name() == "login" {
			return nil
		}

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		contextName, err := cmd.Flags().GetString("context")
		if err != nil {
			return fmt.Errorf("failed to get context flag: %w", err)
		}

		appctx, err := cfg.GetContext(contextName)
		if err != nil {
			return fmt.Errorf("failed to get current context: %w", err)
		}

		client := api.NewClient(*appctx)

		ctx := api.CtxWithApi(cmd.Context(), client)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("context", "c", "", "Specify the context to use from the configuration file")
	rootCmd.PersistentFlags().StringP("config", "f", "", "Specify the configuration file to use")

	rootCmd.AddCommand(login.LoginCmd)
	rootCmd.AddCommand(doors.DoorsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
