// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package events

import (
	"context"

	"github.com/sharp-rmf/door-adapter-dormakaba/door"
)

const (
	KindState   = "state"
	KindRequest = "request"
)

// Subject builds "<prefix>.<door>.<kind>", e.g. rmf.door.lobby.state.
func Subject(prefix, doorName, kind string) string {
	return prefix + "." + doorName + "." + kind
}

// DoorState is published whenever the observed mode of a door changes.
type DoorState struct {
	Door      string    `json:"door"`
	DoorId    string    `json:"door_id"`
	Mode      door.Mode `json:"mode"`
	ModeName  string    `json:"mode_name"`
	Connected bool      `json:"connected"`
	Time      int64     `json:"time"`
}

// DoorRequest is published after every open or close command.
type DoorRequest struct {
	Id            string           `json:"id"`
	Door          string           `json:"door"`
	RequestedMode door.Mode        `json:"requested_mode"`
	Outcome       door.OutcomeKind `json:"outcome"`
	StatusCode    int              `json:"status_code,omitempty"`
	Time          int64            `json:"time"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}
