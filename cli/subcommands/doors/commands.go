// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
)

var commandsCmd = &cobra.Command{
	Use:   "commands <door>",
	Short: "Show the latest commands sent to a door",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		api := api.CtxGetApi(cmd.Context())
		return listCommands(cmd.OutOrStdout(), api, args[0], limit)
	},
}

func init() {
	commandsCmd.Flags().IntP("limit", "n", 20, "Maximum number of commands to show")
	DoorsCmd.AddCommand(commandsCmd)
}

func listCommands(out io.Writer, api *api.Api, name string, limit int) error {
	cmds, err := api.DoorCommands(name, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tOUTCOME\tCODE\tID")
	for _, c := range cmds {
		code := "-"
		if c.StatusCode != 0 {
			code = fmt.Sprint(c.StatusCode)
		}
		when := humanize.Time(time.Unix(c.CreatedAt, 0))
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", when, c.Action, c.Outcome, code, c.Id)
	}
	return w.Flush()
}
