// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package context

import (
	"context"
	"log/slog"
)

type (
	Context = context.Context
	ctxKey  int
)

var (
	Background  = context.Background
	WithCancel  = context.WithCancel
	WithTimeout = context.WithTimeout
	WithValue   = context.WithValue

	WithoutCancel = context.WithoutCancel
)

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyCorrelationId
)

// CtxGetLog returns the logger stored in ctx, or the process default logger
// when the caller did not attach one.
func CtxGetLog(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKeyLogger).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

func CtxWithLog(ctx Context, log *slog.Logger) Context {
	return WithValue(ctx, ctxKeyLogger, log)
}

func CtxGetCorrelationId(ctx Context) string {
	id, _ := ctx.Value(ctxKeyCorrelationId).(string)
	return id
}

// CtxWithCorrelationId stores the id and tags the context logger with it.
func CtxWithCorrelationId(ctx Context, id string) Context {
	ctx = WithValue(ctx, ctxKeyCorrelationId, id)
	return CtxWithLog(ctx, CtxGetLog(ctx).With("corr_id", id))
}
