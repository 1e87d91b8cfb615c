// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package door

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Mode is the physical state of a door as reported to the fleet manager.
// The numeric values are part of the fleet protocol and must not change.
type Mode int

const (
	ModeClosed  Mode = 0
	ModeMoving  Mode = 1
	ModeOpen    Mode = 2
	ModeOffline Mode = 3
	ModeUnknown Mode = 4
)

var modeNames = map[Mode]string{
	ModeClosed:  "closed",
	ModeMoving:  "moving",
	ModeOpen:    "open",
	ModeOffline: "offline",
	ModeUnknown: "unknown",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts either a mode name ("open", "CLOSED", "mode_open") or
// its protocol number ("2").
func ParseMode(s string) (Mode, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "mode_")
	if n, err := strconv.Atoi(s); err == nil {
		if m := Mode(n); m.Valid() {
			return m, nil
		}
		return ModeUnknown, fmt.Errorf("invalid door mode: %d", n)
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeUnknown, fmt.Errorf("invalid door mode: %q", s)
}

// UnmarshalJSON takes both the numeric and the string form.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("door mode must be a string or a number: %s", string(data))
		}
		s = strconv.Itoa(n)
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Vendor door states reported by the cloud API in body.doorState.
const (
	VendorStateClosed               = "closed"
	VendorStateOpening              = "opening"
	VendorStateClosing              = "closing"
	VendorStateBetweenOpenAndClosed = "betweenOpenAndClosed"
	VendorStateOpen                 = "open"
	VendorStateOpenOHZ              = "openOHZ"
	VendorStateOffline              = "OFFLINE"
)

// ModeFromVendorState maps the vendor vocabulary onto Mode. A nil state means
// the field was missing from the response. Matching is case sensitive and
// anything not listed is ModeUnknown.
func ModeFromVendorState(state *string) Mode {
	if state == nil {
		return ModeUnknown
	}
	switch *state {
	case VendorStateClosed:
		return ModeClosed
	case VendorStateOpening, VendorStateClosing, VendorStateBetweenOpenAndClosed:
		return ModeMoving
	case VendorStateOpen, VendorStateOpenOHZ:
		return ModeOpen
	case VendorStateOffline:
		return ModeOffline
	default:
		return ModeUnknown
	}
}
