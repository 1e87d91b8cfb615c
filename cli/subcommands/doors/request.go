// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
)

var openCmd = &cobra.Command{
	Use:   "open <door>",
	Short: "Send an open command to a door",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return requestMode(cmd.OutOrStdout(), api, args[0], door.ModeOpen)
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <door>",
	Short: "Send a close command to a door",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return requestMode(cmd.OutOrStdout(), api, args[0], door.ModeClosed)
	},
}

func init() {
	DoorsCmd.AddCommand(openCmd)
	DoorsCmd.AddCommand(closeCmd)
}

func requestMode(out io.Writer, api *api.Api, name string, mode door.Mode) error {
	res, err := api.RequestMode(name, mode)
	if err != nil {
		return err
	}
	if !res.Success {
		msg := fmt.Sprintf("door %s did not %s: %s", name, res.Action, res.Outcome)
		if res.StatusCode != 0 {
			msg += fmt.Sprintf(" (statusCode=%d)", res.StatusCode)
		}
		if res.Detail != "" {
			msg += ": " + res.Detail
		}
		return fmt.Errorf("%s [command %s]", msg, res.Id)
	}
	fmt.Fprintf(out, "Door %s: %s accepted [command %s]\n", name, res.Action, res.Id)
	return nil
}
