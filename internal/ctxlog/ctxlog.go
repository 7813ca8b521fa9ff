// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"log/slog"
	"os"
)

type loggerKey struct{}

// LevelVar holds the process-wide log level. It is initialised from the
// environment but may be changed at runtime, e.g. by a --verbose flag.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty console logger used when no logger is present in
// the context.
var DefaultLogger = slog.New(NewPrettyHandler(
	&slog.HandlerOptions{Level: LevelVar},
	WithDestinationWriter(os.Stderr),
))

// JSONLogger writes structured JSON records, for non-interactive use.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

// LevelEnvVar is the environment variable that controls the log level.
const LevelEnvVar = "FFLOW_LOG_LEVEL"

func init() {
	LevelVar.Set(LevelFromEnv())
}

// New returns a context carrying the given logger. A nil logger selects
// DefaultLogger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger stored in the context, or DefaultLogger.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Debug logs a debug message using the context logger.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Info logs an info message using the context logger.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Warn logs a warning message using the context logger.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message using the context logger.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// LevelFromEnv reads the log level from LevelEnvVar.
func LevelFromEnv() slog.Level {
	switch os.Getenv(LevelEnvVar) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
