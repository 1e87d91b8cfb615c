// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package login

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/config"
)

var LoginCmd = &cobra.Command{
	Use:   "login <context-name> <adapter-url>",
	Short: "Configure access to a door adapter",
	Long: `Configure a context pointing at a door adapter and save it to
~/.config/doorctl.yaml.

Pass --token when the adapter has API authentication enabled.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		setDefault, _ := cmd.Flags().GetBool("set-default")
		configPath, _ := cmd.Flags().GetString("config")

		return login(cmd.OutOrStdout(), args[0], args[1], token, configPath, setDefault)
	},
}

func init() {
	LoginCmd.Flags().String("token", "", "API token for the adapter")
	LoginCmd.Flags().Bool("set-default", true, "Set this context as the default")
}

func login(out io.Writer, contextName, serverURL, token, configPath string, setDefault bool) error {
	if u, err := url.Parse(serverURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid adapter URL: %q", serverURL)
	}

	// Load existing config or create new one
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]config.Context)
	}
	cfg.Contexts[contextName] = config.Context{
		URL:   serverURL,
		Token: token,
	}

	if setDefault {
		cfg.ActiveContext = contextName
	}

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "Successfully configured context '%s'\n", contextName)
	fmt.Fprintf(out, "  Adapter URL: %s\n", serverURL)
	if setDefault {
		fmt.Fprintf(out, "  Set as default context\n")
	}
	return nil
}
