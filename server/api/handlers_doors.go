// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
	"github.com/sharp-rmf/door-adapter-dormakaba/server"
)

type (
	DoorInfo      = adapter.DoorInfo
	DoorState     = adapter.DoorState
	CommandResult = adapter.CommandResult
)

type ModeRequest struct {
	Mode *door.Mode `json:"mode"`
}

// @Summary List configured doors
// @Produce json
// @Success 200 {array} DoorInfo
// @Router  /doors [get]
func (h *handlers) doorList(c echo.Context) error {
	return c.JSON(http.StatusOK, h.adapter.List())
}

// @Summary Get the current mode of a door
// @Produce json
// @Success 200 DoorState
// @Router  /doors/:name/state [get]
func (h *handlers) doorState(c echo.Context) error {
	name := c.Param("name")
	st, err := h.adapter.State(c.Request().Context(), name)
	if err != nil {
		return doorError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// @Summary Request a door to open or close
// @Accept  json
// @Produce json
// @Param   data body ModeRequest true "Requested mode"
// @Success 200 CommandResult
// @Router  /doors/:name/request [post]
func (h *handlers) doorRequest(c echo.Context) error {
	var req ModeRequest
	if err := server.ReadJsonBody(c, &req); err != nil {
		return server.EchoError(c, err, http.StatusBadRequest, err.Error())
	} else if req.Mode == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing mode")
	}

	res, err := h.adapter.RequestMode(c.Request().Context(), c.Param("name"), *req.Mode)
	if err != nil {
		return doorError(c, err)
	}
	// A door refusing the command is reported in the body, not as an HTTP error.
	return c.JSON(http.StatusOK, res)
}

// @Summary List the latest commands sent to a door, newest first
// @Produce json
// @Param   limit query int false "Maximum number of commands"
// @Success 200 {array} storage.DoorCommand
// @Router  /doors/:name/commands [get]
func (h *handlers) doorCommands(c echo.Context) error {
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		var err error
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
	}
	cmds, err := h.adapter.Commands(c.Param("name"), limit)
	if err != nil {
		return doorError(c, err)
	}
	return c.JSON(http.StatusOK, cmds)
}

func doorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, adapter.ErrUnknownDoor):
		return server.EchoError(c, err, http.StatusNotFound, err.Error())
	case errors.Is(err, adapter.ErrUnsupportedMode):
		return server.EchoError(c, err, http.StatusBadRequest, err.Error())
	default:
		return server.EchoError(c, err, http.StatusInternalServerError, "Unexpected error")
	}
}
