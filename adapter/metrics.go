// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package adapter

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	commands  *prometheus.CounterVec
	mode      *prometheus.GaugeVec
	connected *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "door_adapter",
			Name:      "commands_total",
			Help:      "Door commands sent to the vendor cloud by outcome.",
		}, []string{"door", "action", "outcome"}),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "door_adapter",
			Name:      "door_mode",
			Help:      "Last observed door mode (0 closed, 1 moving, 2 open, 3 offline, 4 unknown).",
		}, []string{"door"}),
		connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "door_adapter",
			Name:      "vendor_connected",
			Help:      "Whether the startup probe reached the vendor cloud for the door.",
		}, []string{"door"}),
	}
	reg.MustRegister(m.commands, m.mode, m.connected)
	return m
}

func (m *metrics) setConnected(name string, connected bool) {
	v := 0.0
	if connected {
		v = 1
	}
	m.connected.WithLabelValues(name).Set(v)
}
