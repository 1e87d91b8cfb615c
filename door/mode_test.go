// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package door

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestModeFromVendorState(t *testing.T) {
	cases := map[string]Mode{
		"closed":               ModeClosed,
		"opening":              ModeMoving,
		"closing":              ModeMoving,
		"betweenOpenAndClosed": ModeMoving,
		"open":                 ModeOpen,
		"openOHZ":              ModeOpen,
		"OFFLINE":              ModeOffline,
		"offline":              ModeUnknown,
		"Closed":               ModeUnknown,
		"jammed":               ModeUnknown,
		"":                     ModeUnknown,
	}
	for state, expected := range cases {
		require.Equal(t, expected, ModeFromVendorState(ptr(state)), "state %q", state)
	}
	require.Equal(t, ModeUnknown, ModeFromVendorState(nil))
}

func TestModeProtocolValues(t *testing.T) {
	require.Equal(t, 0, int(ModeClosed))
	require.Equal(t, 1, int(ModeMoving))
	require.Equal(t, 2, int(ModeOpen))
	require.Equal(t, 3, int(ModeOffline))
	require.Equal(t, 4, int(ModeUnknown))
	require.Equal(t, "mode(9)", Mode(9).String())
	require.False(t, Mode(9).Valid())
}

func TestParseMode(t *testing.T) {
	for in, expected := range map[string]Mode{
		"open":        ModeOpen,
		" CLOSED ":    ModeClosed,
		"MODE_MOVING": ModeMoving,
		"3":           ModeOffline,
		"unknown":     ModeUnknown,
	} {
		m, err := ParseMode(in)
		require.Nil(t, err, in)
		require.Equal(t, expected, m, in)
	}
	_, err := ParseMode("ajar")
	require.NotNil(t, err)
	_, err = ParseMode("7")
	require.NotNil(t, err)
}

func TestModeUnmarshalJSON(t *testing.T) {
	var req struct {
		Mode Mode `json:"mode"`
	}
	require.Nil(t, json.Unmarshal([]byte(`{"mode": "open"}`), &req))
	require.Equal(t, ModeOpen, req.Mode)
	require.Nil(t, json.Unmarshal([]byte(`{"mode": 0}`), &req))
	require.Equal(t, ModeClosed, req.Mode)
	require.NotNil(t, json.Unmarshal([]byte(`{"mode": true}`), &req))
	require.NotNil(t, json.Unmarshal([]byte(`{"mode": "sideways"}`), &req))
}

func TestOutcome(t *testing.T) {
	require.True(t, Succeeded().OK())
	require.False(t, RejectedWith(500).OK())
	require.Equal(t, "rejected (statusCode=500)", RejectedWith(500).String())

	o := UnreachableWith(errors.New("connection refused"))
	require.False(t, o.OK())
	require.Equal(t, "unreachable: connection refused", o.String())

	data, err := json.Marshal(RejectedWith(403))
	require.Nil(t, err)
	require.JSONEq(t, `{"kind":"rejected","status_code":403}`, string(data))
}
