// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"

	"github.com/sharp-rmf/door-adapter-dormakaba/auth"
)

type HashTokenCmd struct {
	Token string `arg:"--token,env:DOOR_ADAPTER_TOKEN" help:"Token to hash, a random one is generated when empty"`
}

func (c HashTokenCmd) Run(args CommonArgs) error {
	token := c.Token
	if token == "" {
		token = auth.NewToken()
		fmt.Fprintf(args.out, "token: %s\n", token)
	}
	hash, err := auth.TokenHash(token)
	if err != nil {
		return err
	}
	fmt.Fprintf(args.out, "token_hash: %s\n", hash)
	return nil
}
