// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-based structured logger built on log/slog.
// The logger travels in the context so that any component can retrieve it
// without plumbing an extra parameter. The log level is read from the
// FFLOW_LOG_LEVEL environment variable ("DEBUG", "INFO", "WARN", "ERROR");
// anything else defaults to "WARN".
package ctxlog
