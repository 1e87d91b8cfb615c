// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package storage

// DoorCommand is one open or close request sent to the vendor on behalf of
// the fleet manager.
type DoorCommand struct {
	Id         string `json:"id"`
	Door       string `json:"door"`
	DoorId     string `json:"door_id"`
	Action     string `json:"action"`
	Outcome    string `json:"outcome"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}
