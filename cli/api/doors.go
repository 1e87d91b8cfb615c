// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"fmt"
	"net/url"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
	"github.com/sharp-rmf/door-adapter-dormakaba/storage"
)

type (
	DoorInfo      = adapter.DoorInfo
	DoorState     = adapter.DoorState
	CommandResult = adapter.CommandResult
	DoorCommand   = storage.DoorCommand
)

func (a Api) ListDoors() ([]DoorInfo, error) {
	var doors []DoorInfo
	return doors, a.Get("/doors", &doors)
}

func (a Api) DoorState(name string) (*DoorState, error) {
	var st DoorState
	if err := a.Get("/doors/"+url.PathEscape(name)+"/state", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (a Api) RequestMode(name string, mode door.Mode) (*CommandResult, error) {
	var res CommandResult
	payload := map[string]string{"mode": mode.String()}
	if err := a.Post("/doors/"+url.PathEscape(name)+"/request", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a Api) DoorCommands(name string, limit int) ([]DoorCommand, error) {
	var cmds []DoorCommand
	resource := fmt.Sprintf("/doors/%s/commands?limit=%d", url.PathEscape(name), limit)
	return cmds, a.Get(resource, &cmds)
}
