// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import "github.com/spf13/cobra"

var DoorsCmd = &cobra.Command{
	Use:   "doors",
	Short: "Inspect and operate doors",
	Long:  `Commands for listing, querying and operating the doors served by a door adapter`,
}
