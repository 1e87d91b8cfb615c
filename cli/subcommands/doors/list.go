// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all doors",
	Long:  `List the doors configured on the adapter with their vendor ids`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return listDoors(cmd.OutOrStdout(), api)
	},
}

func init() {
	DoorsCmd.AddCommand(listCmd)
}

func listDoors(out io.Writer, api *api.Api) error {
	doors, err := api.ListDoors()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOOR ID\tPROBE")
	for _, d := range doors {
		probe := "ok"
		if !d.Connected {
			probe = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.DoorId, probe)
	}
	return w.Flush()
}
