// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package doors

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/api"
	"github.com/sharp-rmf/door-adapter-dormakaba/cli/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
)

func newTestApi(t *testing.T) *api.Api {
	now := time.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /doors", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name": "lab", "door_id": "1002"}, {"name": "lobby", "door_id": "1001", "connected": true}]`))
	})
	mux.HandleFunc("GET /doors/lobby/state", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name": "lobby", "mode": 1, "mode_name": "moving", "updated_at": %d}`, now.UnixMilli())
	})
	mux.HandleFunc("POST /doors/lobby/request", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "c1", "action": "open", "outcome": "success", "status_code": 200, "success": true}`))
	})
	mux.HandleFunc("POST /doors/lab/request", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "c2", "action": "close", "outcome": "rejected", "status_code": 423, "success": false}`))
	})
	mux.HandleFunc("GET /doors/lobby/commands", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id": "c1", "action": "open", "outcome": "success", "status_code": 200, "created_at": %d},
			{"id": "c0", "action": "close", "outcome": "unreachable", "created_at": %d}]`,
			now.Unix(), now.Add(-time.Hour).Unix())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.NewClient(config.Context{URL: srv.URL})
}

func TestListDoors(t *testing.T) {
	var out bytes.Buffer
	require.Nil(t, listDoors(&out, newTestApi(t)))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"NAME", "DOOR", "ID", "PROBE"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"lab", "1002", "failed"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"lobby", "1001", "ok"}, strings.Fields(lines[2]))
}

func TestShowState(t *testing.T) {
	var out bytes.Buffer
	require.Nil(t, showState(&out, newTestApi(t), "lobby"))
	require.Equal(t, "lobby: moving (mode=1, observed now)\n", out.String())
	require.NotNil(t, showState(&out, newTestApi(t), "basement"))
}

func TestRequestMode(t *testing.T) {
	var out bytes.Buffer
	a := newTestApi(t)
	require.Nil(t, requestMode(&out, a, "lobby", door.ModeOpen))
	require.Equal(t, "Door lobby: open accepted [command c1]\n", out.String())

	err := requestMode(&out, a, "lab", door.ModeClosed)
	require.EqualError(t, err, "door lab did not close: rejected (statusCode=423) [command c2]")
}

func TestListCommands(t *testing.T) {
	var out bytes.Buffer
	require.Nil(t, listCommands(&out, newTestApi(t), "lobby", 5))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], "open")
	require.Contains(t, lines[1], "200")
	require.Contains(t, lines[2], "1 hour ago")
	require.Contains(t, lines[2], "unreachable")
}
