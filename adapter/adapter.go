// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package adapter

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/door"
	"github.com/sharp-rmf/door-adapter-dormakaba/events"
	"github.com/sharp-rmf/door-adapter-dormakaba/storage"
)

var (
	ErrUnknownDoor     = errors.New("unknown door")
	ErrUnsupportedMode = errors.New("unsupported door mode request")
)

// Door is one vendor controlled door, *dormakaba.Client implements it.
type Door interface {
	DoorId() string
	Connected() bool
	OpenContext(ctx context.Context) door.Outcome
	CloseContext(ctx context.Context) door.Outcome
	ModeContext(ctx context.Context) door.Mode
}

type Journal interface {
	RecordCommand(cmd storage.DoorCommand) error
	ListCommands(door string, limit int) ([]storage.DoorCommand, error)
}

type DoorInfo struct {
	Name      string `json:"name"`
	DoorId    string `json:"door_id"`
	Connected bool   `json:"connected"`
}

type DoorState struct {
	Name      string    `json:"name"`
	Mode      door.Mode `json:"mode"`
	ModeName  string    `json:"mode_name"`
	Connected bool      `json:"connected"`
	UpdatedAt int64     `json:"updated_at"`
}

type CommandResult struct {
	storage.DoorCommand
	Success bool `json:"success"`
}

type Option func(*Adapter)

func WithJournal(j Journal) Option {
	return func(a *Adapter) {
		a.journal = j
	}
}

func WithPublisher(p events.Publisher, subjectPrefix string) Option {
	return func(a *Adapter) {
		a.publisher = p
		a.subjectPrefix = subjectPrefix
	}
}

// WithStateCacheTTL sets how long a queried door mode is served from memory.
func WithStateCacheTTL(ttl time.Duration) Option {
	return func(a *Adapter) {
		a.cacheTTL = ttl
	}
}

// WithPollInterval sets how often the state poller refreshes every door.
// Zero disables the poller.
func WithPollInterval(interval time.Duration) Option {
	return func(a *Adapter) {
		a.pollInterval = interval
	}
}

// Adapter serves fleet manager requests for a set of named doors.
type Adapter struct {
	context   context.Context
	doors     map[string]Door
	names     []string
	journal   Journal
	publisher events.Publisher

	subjectPrefix string
	cacheTTL      time.Duration
	pollInterval  time.Duration

	states   cache.Cache[string, DoorState]
	registry *prometheus.Registry
	metrics  *metrics

	mu        sync.Mutex
	published map[string]door.Mode
	stops     []chan bool
}

func New(ctx context.Context, doors map[string]Door, opts ...Option) *Adapter {
	a := &Adapter{
		context:       ctx,
		doors:         doors,
		publisher:     events.NoopPublisher{},
		subjectPrefix: "rmf.door",
		cacheTTL:      time.Second,
		pollInterval:  2 * time.Second,
		registry:      prometheus.NewRegistry(),
		published:     map[string]door.Mode{},
	}
	for name := range doors {
		a.names = append(a.names, name)
	}
	slices.Sort(a.names)

	for _, opt := range opts {
		opt(a)
	}
	a.states = cache.NewCache[string, DoorState]().WithTTL(a.cacheTTL).WithMaxKeys(len(doors) + 1)
	a.metrics = newMetrics(a.registry)
	for name, d := range doors {
		a.metrics.setConnected(name, d.Connected())
	}
	return a
}

// Registry exposes the adapter metrics for scraping.
func (a *Adapter) Registry() *prometheus.Registry {
	return a.registry
}

func (a *Adapter) door(name string) (Door, error) {
	d, ok := a.doors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDoor, name)
	}
	return d, nil
}

func (a *Adapter) List() []DoorInfo {
	infos := make([]DoorInfo, 0, len(a.names))
	for _, name := range a.names {
		d := a.doors[name]
		infos = append(infos, DoorInfo{Name: name, DoorId: d.DoorId(), Connected: d.Connected()})
	}
	return infos
}

// RequestMode drives a door towards the requested mode. Only ModeOpen and
// ModeClosed can be requested. A door refusing the command or an unreachable
// vendor is not an error: it is reported in the result.
func (a *Adapter) RequestMode(ctx context.Context, name string, mode door.Mode) (*CommandResult, error) {
	d, err := a.door(name)
	if err != nil {
		return nil, err
	}
	var action string
	var run func(context.Context) door.Outcome
	switch mode {
	case door.ModeOpen:
		action, run = "open", d.OpenContext
	case door.ModeClosed:
		action, run = "close", d.CloseContext
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}

	id := uuid.NewString()
	ctx = context.CtxWithCorrelationId(ctx, id)
	log := context.CtxGetLog(ctx).With("door", name, "action", action)

	outcome := run(ctx)
	now := time.Now()
	a.states.Invalidate(name)
	a.metrics.commands.WithLabelValues(name, action, outcome.Kind.String()).Inc()
	log.Info("door command finished", "outcome", outcome.String())

	res := &CommandResult{
		DoorCommand: storage.DoorCommand{
			Id:         id,
			Door:       name,
			DoorId:     d.DoorId(),
			Action:     action,
			Outcome:    outcome.Kind.String(),
			StatusCode: outcome.StatusCode,
			CreatedAt:  now.Unix(),
		},
		Success: outcome.OK(),
	}
	if outcome.Err != nil {
		res.Detail = outcome.Err.Error()
	}
	if a.journal != nil {
		if err := a.journal.RecordCommand(res.DoorCommand); err != nil {
			log.Error("failed to journal door command", "error", err)
		}
	}
	event := events.DoorRequest{
		Id:            id,
		Door:          name,
		RequestedMode: mode,
		Outcome:       outcome.Kind,
		StatusCode:    outcome.StatusCode,
		Time:          now.UnixMilli(),
	}
	if err := a.publisher.Publish(ctx, events.Subject(a.subjectPrefix, name, events.KindRequest), event); err != nil {
		log.Warn("failed to publish door request event", "error", err)
	}
	return res, nil
}

// State returns the door mode, served from cache while it is fresh.
func (a *Adapter) State(ctx context.Context, name string) (DoorState, error) {
	d, err := a.door(name)
	if err != nil {
		return DoorState{}, err
	}
	if st, ok := a.states.Get(name); ok {
		return st, nil
	}
	return a.refresh(ctx, name, d), nil
}

func (a *Adapter) refresh(ctx context.Context, name string, d Door) DoorState {
	mode := d.ModeContext(ctx)
	st := DoorState{
		Name:      name,
		Mode:      mode,
		ModeName:  mode.String(),
		Connected: d.Connected(),
		UpdatedAt: time.Now().UnixMilli(),
	}
	a.states.Set(name, st, 0)
	a.metrics.mode.WithLabelValues(name).Set(float64(mode))
	return st
}

func (a *Adapter) Commands(name string, limit int) ([]storage.DoorCommand, error) {
	if _, err := a.door(name); err != nil {
		return nil, err
	}
	if a.journal == nil {
		return []storage.DoorCommand{}, nil
	}
	return a.journal.ListCommands(name, limit)
}
