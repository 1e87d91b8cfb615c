// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
)

var stateCmd = &cobra.Command{
	Use:   "state <door>",
	Short: "Show the current mode of a door",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return showState(cmd.OutOrStdout(), api, args[0])
	},
}

func init() {
	DoorsCmd.AddCommand(stateCmd)
}

func showState(out io.Writer, api *api.Api, name string) error {
	st, err := api.DoorState(name)
	if err != nil {
		return err
	}
	updated := time.UnixMilli(st.UpdatedAt)
	fmt.Fprintf(out, "%s: %s (mode=%d, observed %s)\n", st.Name, st.ModeName, int(st.Mode), humanize.Time(updated))
	return nil
}
