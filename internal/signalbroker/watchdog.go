// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/fflowtools/fflow/internal/ctxlog"
)

// Watch monitors the signal channel. The first signal of a given type is left
// for the supervisor to forward to the child process; the second cancels the
// context, aborting everything.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := sigMap[sig]; ok {
			ctxlog.Info(ctx, "watchdog", "detail", "received second signal of type, aborting", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, waiting for job to stop", "signal", sig.String())

		sigMap[sig] = struct{}{}
	}
}
