// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import "errors"

var (
	// ErrCouldNotStartProcess is returned when the executable cannot be
	// located or started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrCouldNotKillProcess is returned when the process did not exit
	// within the kill grace period.
	ErrCouldNotKillProcess = errors.New("could not kill process within grace period")
	// ErrNotAwaitingInput is returned when a response is submitted while no
	// prompt is pending.
	ErrNotAwaitingInput = errors.New("no prompt is awaiting a response")
	// ErrPromptOverlap is returned when a second prompt is observed while
	// one is still unanswered. The child is assumed to serialize its
	// prompts, so this is a protocol violation and the run is failed.
	ErrPromptOverlap = errors.New("second prompt received while one is outstanding")
	// ErrDeliveryFailed is returned when a response cannot be written to the
	// child's stdin, typically because the child already exited. The caller
	// should re-poll to discover the real terminal state.
	ErrDeliveryFailed = errors.New("could not deliver response to process stdin")
	// ErrEmptySpec is returned when a JobSpec has no command tokens.
	ErrEmptySpec = errors.New("job spec has no command tokens")
	// ErrAlreadySpawned is returned when Spawn is called on a supervisor
	// that already owns a job.
	ErrAlreadySpawned = errors.New("supervisor already owns a job")
	// ErrNotSpawned is returned when an operation requires a spawned job.
	ErrNotSpawned = errors.New("no job has been spawned")
)
