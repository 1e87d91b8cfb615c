// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package dormakaba

const (
	pathStatus     = "/rmf/status"
	pathRemoteOpen = "/rmf/remoteopen"

	actionQuickOpen = "quickOpen"
	actionClose     = "close"
)

type statusRequest struct {
	Id string `json:"id"`
}

type statusResponse struct {
	Body *struct {
		DoorState *string `json:"doorState"`
	} `json:"body"`
}

type commandRequest struct {
	Id         string `json:"id"`
	DoorAction string `json:"doorAction"`
}

// The vendor answers HTTP 200 even when the door refuses the command; the
// real verdict is the statusCode field of the JSON body.
type commandResponse struct {
	StatusCode *float64 `json:"statusCode"`
}
