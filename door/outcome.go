// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package door

import "fmt"

type OutcomeKind int

const (
	// The vendor accepted the command.
	Success OutcomeKind = iota
	// The vendor answered but the door refused, StatusCode holds its code.
	Rejected
	// The vendor could not be reached or answered with garbage.
	Unreachable
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	default:
		return "unreachable"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the detailed result of an open or close command.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	StatusCode int         `json:"status_code,omitempty"`
	Err        error       `json:"-"`
}

func Succeeded() Outcome {
	return Outcome{Kind: Success, StatusCode: 200}
}

func RejectedWith(code int) Outcome {
	return Outcome{Kind: Rejected, StatusCode: code}
}

func UnreachableWith(err error) Outcome {
	return Outcome{Kind: Unreachable, Err: err}
}

// OK is the boolean view used by the fleet protocol.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

func (o Outcome) String() string {
	switch o.Kind {
	case Success:
		return "success"
	case Rejected:
		return fmt.Sprintf("rejected (statusCode=%d)", o.StatusCode)
	default:
		if o.Err != nil {
			return fmt.Sprintf("unreachable: %s", o.Err)
		}
		return "unreachable"
	}
}
