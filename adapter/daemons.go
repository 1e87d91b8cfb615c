// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package adapter

import (
	"time"

	"github.com/sharp-rmf/door-adapter-dormakaba/context"
	"github.com/sharp-rmf/door-adapter-dormakaba/events"
)

type daemonFunc func(stop chan bool)

func (a *Adapter) Start() {
	var daemons []daemonFunc
	if a.pollInterval > 0 {
		daemons = append(daemons, a.statePoller())
	}
	for _, f := range daemons {
		stop := make(chan bool)
		a.stops = append(a.stops, stop)
		go f(stop)
	}
}

// Shutdown blocks until every daemon has finished its current iteration.
func (a *Adapter) Shutdown() {
	for _, s := range a.stops {
		s <- true
	}
	a.stops = nil
}

func (a *Adapter) statePoller() daemonFunc {
	return func(stop chan bool) {
		for {
			a.Poll(a.context)
			select {
			case <-stop:
				return
			case <-time.After(a.pollInterval):
			}
		}
	}
}

// Poll refreshes the state of every door and publishes a state event for
// each door whose mode differs from the last one published.
func (a *Adapter) Poll(ctx context.Context) {
	log := context.CtxGetLog(ctx)
	for _, name := range a.names {
		st := a.refresh(ctx, name, a.doors[name])

		a.mu.Lock()
		prev, seen := a.published[name]
		changed := !seen || prev != st.Mode
		if changed {
			a.published[name] = st.Mode
		}
		a.mu.Unlock()
		if !changed {
			continue
		}

		log.Info("door mode changed", "door", name, "mode", st.ModeName)
		event := events.DoorState{
			Door:      name,
			DoorId:    a.doors[name].DoorId(),
			Mode:      st.Mode,
			ModeName:  st.ModeName,
			Connected: st.Connected,
			Time:      st.UpdatedAt,
		}
		if err := a.publisher.Publish(ctx, events.Subject(a.subjectPrefix, name, events.KindState), event); err != nil {
			log.Warn("failed to publish door state event", "door", name, "error", err)
		}
	}
}
