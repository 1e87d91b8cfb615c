// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharp-rmf/door-adapter-dormakaba/adapter"
	"github.com/sharp-rmf/door-adapter-dormakaba/auth"
	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
	"github.com/sharp-rmf/door-adapter-dormakaba/server"
	"github.com/sharp-rmf/door-adapter-dormakaba/storage/journal"
)

const testToken = "let-me-in"

type testDoor struct {
	id string

	mu      sync.Mutex
	mode    door.Mode
	outcome door.Outcome
	actions []string
}

func (d *testDoor) DoorId() string  { return d.id }
func (d *testDoor) Connected() bool { return true }

func (d *testDoor) OpenContext(ctx context.Context) door.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = append(d.actions, "open")
	return d.outcome
}

func (d *testDoor) CloseContext(ctx context.Context) door.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = append(d.actions, "close")
	return d.outcome
}

func (d *testDoor) ModeContext(ctx context.Context) door.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

type testClient struct {
	t     *testing.T
	ctx   Context
	e     *echo.Echo
	lobby *testDoor
	lab   *testDoor
}

func (c testClient) Do(req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(c.ctx)
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func (c testClient) GET(resource string, status int, headers ...string) []byte {
	req := httptest.NewRequest(http.MethodGet, resource, nil)
	c.marshalHeaders(headers, req)
	rec := c.Do(req)
	require.Equal(c.t, status, rec.Code, rec.Body.String())
	return rec.Body.Bytes()
}

func (c testClient) POST(resource string, status int, data any, headers ...string) []byte {
	req := httptest.NewRequest(http.MethodPost, resource, c.marshalBody(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.marshalHeaders(headers, req)
	rec := c.Do(req)
	require.Equal(c.t, status, rec.Code, rec.Body.String())
	return rec.Body.Bytes()
}

func (c testClient) marshalHeaders(headers []string, req *http.Request) {
	require.Zero(c.t, len(headers)%2, "Headers must be a sequence of names and values - even number")
	for i := 0; i < len(headers)/2; i++ {
		req.Header.Add(headers[i*2], headers[i*2+1])
	}
}

func (c testClient) marshalBody(data any) io.Reader {
	if s, ok := data.(string); ok {
		return strings.NewReader(s)
	} else if b, ok := data.([]byte); ok {
		return bytes.NewReader(b)
	} else {
		b, err := json.Marshal(data)
		require.Nil(c.t, err)
		return bytes.NewReader(b)
	}
}

func NewTestClient(t *testing.T, opts Options) *testClient {
	ctx := context.Background()

	fs, err := journal.NewFs(filepath.Join(t.TempDir(), "data"))
	require.Nil(t, err)
	db, err := journal.NewDb(fs.Config.DbFile())
	require.Nil(t, err)
	t.Cleanup(func() {
		require.Nil(t, db.Close())
	})
	strg, err := journal.NewStorage(db)
	require.Nil(t, err)

	log, err := context.InitLogger("debug")
	require.Nil(t, err)
	ctx = CtxWithLog(ctx, log)

	lobby := &testDoor{id: "1001", mode: door.ModeClosed, outcome: door.Succeeded()}
	lab := &testDoor{id: "1002", mode: door.ModeOffline, outcome: door.RejectedWith(409)}
	a := adapter.New(ctx, map[string]adapter.Door{"lobby": lobby, "lab": lab}, adapter.WithJournal(strg))

	e := server.NewEchoServer()
	RegisterHandlers(e, a, opts)

	return &testClient{t: t, ctx: ctx, e: e, lobby: lobby, lab: lab}
}

func TestApiHealthz(t *testing.T) {
	tc := NewTestClient(t, Options{})
	data := tc.GET("/healthz", 200)
	assert.JSONEq(t, `{"status": "ok", "doors": 2}`, string(data))
}

func TestApiDoorList(t *testing.T) {
	tc := NewTestClient(t, Options{})
	data := tc.GET("/doors", 200)
	var doors []DoorInfo
	require.Nil(t, json.Unmarshal(data, &doors))
	require.Len(t, doors, 2)
	assert.Equal(t, "lab", doors[0].Name)
	assert.Equal(t, "1002", doors[0].DoorId)
	assert.Equal(t, "lobby", doors[1].Name)
	assert.True(t, doors[1].Connected)
}

func TestApiDoorState(t *testing.T) {
	tc := NewTestClient(t, Options{})
	_ = tc.GET("/doors/basement/state", 404)

	data := tc.GET("/doors/lab/state", 200)
	var st DoorState
	require.Nil(t, json.Unmarshal(data, &st))
	assert.Equal(t, "lab", st.Name)
	assert.Equal(t, door.ModeOffline, st.Mode)
	assert.Equal(t, "offline", st.ModeName)
	assert.NotZero(t, st.UpdatedAt)
}

func TestApiDoorRequest(t *testing.T) {
	tc := NewTestClient(t, Options{})

	data := tc.POST("/doors/lobby/request", 200, map[string]any{"mode": "open"})
	var res CommandResult
	require.Nil(t, json.Unmarshal(data, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "open", res.Action)
	assert.Equal(t, "success", res.Outcome)
	assert.Equal(t, "lobby", res.Door)
	assert.NotEmpty(t, res.Id)

	// The numeric protocol value works too.
	data = tc.POST("/doors/lobby/request", 200, `{"mode": 0}`)
	require.Nil(t, json.Unmarshal(data, &res))
	assert.Equal(t, "close", res.Action)
	assert.Equal(t, []string{"open", "close"}, tc.lobby.actions)

	// A refusing door is not an HTTP error.
	data = tc.POST("/doors/lab/request", 200, `{"mode": "closed"}`)
	require.Nil(t, json.Unmarshal(data, &res))
	assert.False(t, res.Success)
	assert.Equal(t, "rejected", res.Outcome)
	assert.Equal(t, 409, res.StatusCode)
}

func TestApiDoorRequestErrors(t *testing.T) {
	tc := NewTestClient(t, Options{})

	_ = tc.POST("/doors/basement/request", 404, `{"mode": "open"}`)
	_ = tc.POST("/doors/lobby/request", 400, `{"mode": "moving"}`)
	_ = tc.POST("/doors/lobby/request", 400, `{"mode": 1}`)
	_ = tc.POST("/doors/lobby/request", 400, `{"mode": "ajar"}`)
	_ = tc.POST("/doors/lobby/request", 400, `{"mode": 42}`)
	_ = tc.POST("/doors/lobby/request", 400, `{}`)
	_ = tc.POST("/doors/lobby/request", 400, ``)
	_ = tc.POST("/doors/lobby/request", 400, `{"mode": "open", "force": true}`)
	_ = tc.POST("/doors/lobby/request", 400, `not json`)
	assert.Empty(t, tc.lobby.actions)
}

func TestApiDoorCommands(t *testing.T) {
	tc := NewTestClient(t, Options{})
	_ = tc.GET("/doors/basement/commands", 404)
	_ = tc.GET("/doors/lobby/commands?limit=-1", 400)
	_ = tc.GET("/doors/lobby/commands?limit=abc", 400)

	data := tc.GET("/doors/lobby/commands", 200)
	assert.Equal(t, "[]\n", string(data))

	for _, mode := range []string{"open", "closed", "open"} {
		_ = tc.POST("/doors/lobby/request", 200, map[string]string{"mode": mode})
	}

	var cmds []journal.DoorCommand
	data = tc.GET("/doors/lobby/commands", 200)
	require.Nil(t, json.Unmarshal(data, &cmds))
	require.Len(t, cmds, 3)
	assert.Equal(t, "open", cmds[0].Action)
	assert.Equal(t, "close", cmds[1].Action)

	data = tc.GET("/doors/lobby/commands?limit=1", 200)
	require.Nil(t, json.Unmarshal(data, &cmds))
	require.Len(t, cmds, 1)
}

func TestApiTokenAuth(t *testing.T) {
	hashed, err := auth.TokenHash(testToken)
	require.Nil(t, err)
	v, err := auth.NewVerifier(hashed)
	require.Nil(t, err)
	tc := NewTestClient(t, Options{Verifier: v})

	_ = tc.GET("/doors", 401)
	_ = tc.GET("/doors", 401, "Authorization", "Bearer nope")
	_ = tc.GET("/doors", 401, "Authorization", "Basic "+testToken)
	_ = tc.POST("/doors/lobby/request", 401, `{"mode": "open"}`)
	assert.Empty(t, tc.lobby.actions)

	_ = tc.GET("/doors", 200, "Authorization", "Bearer "+testToken)
	_ = tc.POST("/doors/lobby/request", 200, `{"mode": "open"}`, "Authorization", "Bearer "+testToken)

	// Health and metrics stay open for probes and scrapers.
	_ = tc.GET("/healthz", 200)
	_ = tc.GET("/metrics", 200)
}

func TestApiRateLimit(t *testing.T) {
	tc := NewTestClient(t, Options{RateLimit: 0.001, RateBurst: 2})

	_ = tc.GET("/doors", 200)
	_ = tc.GET("/doors", 200)
	_ = tc.GET("/doors", 429)

	// Buckets are per client address.
	_ = tc.GET("/doors", 200, echo.HeaderXRealIP, "10.0.0.7")
}

func TestApiMetrics(t *testing.T) {
	tc := NewTestClient(t, Options{})
	_ = tc.POST("/doors/lobby/request", 200, `{"mode": "open"}`)
	_ = tc.POST("/doors/lab/request", 200, `{"mode": "open"}`)
	_ = tc.GET("/doors/lobby/state", 200)

	data := string(tc.GET("/metrics", 200))
	assert.Contains(t, data, `door_adapter_commands_total{action="open",door="lobby",outcome="success"} 1`)
	assert.Contains(t, data, `door_adapter_commands_total{action="open",door="lab",outcome="rejected"} 1`)
	assert.Contains(t, data, `door_adapter_door_mode{door="lobby"} 0`)
	assert.Contains(t, data, `door_adapter_vendor_connected{door="lab"} 1`)
}

func TestApiRequestId(t *testing.T) {
	tc := NewTestClient(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/doors", nil)
	rec := tc.Do(req)
	require.Equal(t, 200, rec.Code)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 12)

	req = httptest.NewRequest(http.MethodGet, "/doors", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec = tc.Do(req)
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
}
