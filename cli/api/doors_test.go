// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sharp-rmf/door-adapter-dormakaba/cli/config"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
)

func TestDoorsApi(t *testing.T) {
	var authz []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /doors", func(w http.ResponseWriter, r *http.Request) {
		authz = append(authz, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"name": "lobby", "door_id": "1001", "connected": true}]`))
	})
	mux.HandleFunc("GET /doors/lobby/state", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "lobby", "mode": 2, "mode_name": "open", "connected": true, "updated_at": 1}`))
	})
	mux.HandleFunc("POST /doors/lobby/request", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["mode"] != "closed" {
			http.Error(w, `{"message": "bad mode"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"id": "x", "door": "lobby", "action": "close", "outcome": "success", "status_code": 200, "success": true}`))
	})
	mux.HandleFunc("GET /doors/lobby/commands", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id": "x", "action": "close", "outcome": "success"}]`))
	})
	mux.HandleFunc("GET /doors/basement/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", "rid1")
		http.Error(w, `{"message": "unknown door: basement"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewClient(config.Context{URL: srv.URL + "/", Token: "tok"})

	doors, err := a.ListDoors()
	require.Nil(t, err)
	require.Equal(t, []DoorInfo{{Name: "lobby", DoorId: "1001", Connected: true}}, doors)
	require.Equal(t, []string{"Bearer tok"}, authz)

	st, err := a.DoorState("lobby")
	require.Nil(t, err)
	require.Equal(t, door.ModeOpen, st.Mode)

	res, err := a.RequestMode("lobby", door.ModeClosed)
	require.Nil(t, err)
	require.True(t, res.Success)
	require.Equal(t, "close", res.Action)

	_, err = a.RequestMode("lobby", door.ModeOpen)
	require.ErrorContains(t, err, "failed with status 400")

	cmds, err := a.DoorCommands("lobby", 5)
	require.Nil(t, err)
	require.Len(t, cmds, 1)

	_, err = a.DoorState("basement")
	require.ErrorContains(t, err, "API request (id=rid1) failed with status 404")
}

func TestNoTokenNoHeader(t *testing.T) {
	var authz, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := NewClient(config.Context{URL: srv.URL})
	doors, err := a.ListDoors()
	require.Nil(t, err)
	require.Empty(t, doors)
	require.Empty(t, authz)
	require.Equal(t, "doorctl", agent)
}

func TestHeaderTransport(t *testing.T) {
	var sent http.Header
	base := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		sent = req.Header.Clone()
		return nil, errors.New("unreachable")
	})
	req, err := http.NewRequest(http.MethodPost, "http://adapter.invalid/doors", strings.NewReader(`{}`))
	require.Nil(t, err)

	tr := &headerTransport{Token: "abc", Transport: base}
	_, err = tr.RoundTrip(req)
	require.EqualError(t, err, "unreachable")
	require.Equal(t, "Bearer abc", sent.Get("Authorization"))
	require.Equal(t, "doorctl", sent.Get("User-Agent"))
	// The caller's request is left untouched.
	require.Empty(t, req.Header.Get("Authorization"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
