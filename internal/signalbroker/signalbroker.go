// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker provides a way to listen for OS signals and handle them
// gracefully. By default it listens for the signals that should terminate the
// process: SIGINT, SIGTERM, SIGQUIT and os.Interrupt.
//
// It also contains a watchdog function that cancels a context when a second
// signal of the same type is received, which is the global abort path for a
// run that refuses to die.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fflowtools/fflow/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a signal channel subscribed to the given signals, defaulting to
// the terminating signals.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
