// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package dormakaba

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// HttpStatusError is returned for any vendor answer with a 4xx or 5xx status.
type HttpStatusError struct {
	StatusCode int
	Body       string
}

func (e *HttpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("vendor API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("vendor API returned HTTP %d: %s", e.StatusCode, e.Body)
}

var errInvalidResponse = errors.New("invalid response received")

// failureKind names the flavour of a communication failure for the logs.
// Callers never branch on it: every kind is handled the same way.
func failureKind(err error) string {
	var dnsErr *net.DNSError
	var statusErr *HttpStatusError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		return "name-resolution"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection-refused"
	case errors.As(err, &statusErr):
		return "http-status"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, errInvalidResponse):
		return "invalid-response"
	default:
		return "connection"
	}
}
