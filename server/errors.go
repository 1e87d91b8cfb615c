// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
)

const maxJsonBody = 64 * 1024

// EchoError logs err with the request logger and answers with msg. The
// original error is returned so the request logger records it too.
func EchoError(c echo.Context, err error, status int, msg string) error {
	log := context.CtxGetLog(c.Request().Context())
	if status >= http.StatusInternalServerError {
		log.Error(msg, "error", err)
	} else {
		log.Info(msg, "error", err, "status", status)
	}
	if err2 := c.JSON(status, map[string]string{"message": msg}); err2 != nil {
		return errors.Join(err, err2)
	}
	return err
}

// ReadJsonBody decodes a JSON request body of limited size into dst and
// rejects unknown fields.
func ReadJsonBody(c echo.Context, dst any) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxJsonBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
