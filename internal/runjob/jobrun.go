// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import (
	"sync"
	"time"

	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/google/uuid"
)

// RunState is the lifecycle state of a JobRun. Transitions are forward-only:
// Running and AwaitingInput may alternate, and every run ends in exactly one
// of the terminal states.
type RunState int

const (
	// StateRunning means the child process is executing.
	StateRunning RunState = iota
	// StateAwaitingInput means the child asked a confirmation question and
	// is blocked on a response.
	StateAwaitingInput
	// StateCompleted means the child exited with a success code.
	StateCompleted
	// StateFailed means the child exited with a non-success code, or the
	// run was failed by a protocol violation. This is a normal terminal
	// outcome, not a system error.
	StateFailed
	// StateKilled means the supervisor terminated the child.
	StateKilled
)

// Terminal reports whether no further transition can occur.
func (s RunState) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateKilled:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface for RunState.
func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// MaxRetainedSamples bounds the progress history a run keeps in memory, so a
// long encode does not grow without bound. Older samples are discarded first.
const MaxRetainedSamples = 64

// JobRun is one execution attempt of a JobSpec. It is owned exclusively by a
// Supervisor while running and becomes an immutable record once terminal.
type JobRun struct {
	ID   string
	Spec JobSpec

	mu       sync.Mutex
	state    RunState
	samples  []ffmpeg.ProgressSample
	exitCode int
	exited   bool
	started  time.Time
	ended    time.Time
	input    *ffmpeg.InputInfo
	output   *ffmpeg.OutputInfo
	summary  *ffmpeg.EncodeSummary
}

func newJobRun(spec JobSpec) *JobRun {
	return &JobRun{
		ID:      uuid.NewString(),
		Spec:    spec,
		state:   StateRunning,
		started: time.Now(),
	}
}

// State returns the current run state.
func (r *JobRun) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// ExitCode returns the child's exit code. ok is false while the child has
// not exited.
func (r *JobRun) ExitCode() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.exitCode, r.exited
}

// Started returns the spawn time.
func (r *JobRun) Started() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.started
}

// Ended returns the time the run reached a terminal state; zero while the
// run is live.
func (r *JobRun) Ended() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ended
}

// Samples returns a copy of the retained progress samples, oldest first.
func (r *JobRun) Samples() []ffmpeg.ProgressSample {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ffmpeg.ProgressSample, len(r.samples))
	copy(out, r.samples)

	return out
}

// Input returns the parsed input metadata, if the stream declared any.
func (r *JobRun) Input() *ffmpeg.InputInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.input
}

// Output returns the parsed output metadata, if the stream declared any.
func (r *JobRun) Output() *ffmpeg.OutputInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.output
}

// Summary returns the final encode summary, if one was observed.
func (r *JobRun) Summary() *ffmpeg.EncodeSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summary
}

func (r *JobRun) addSample(sample ffmpeg.ProgressSample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) >= MaxRetainedSamples {
		copy(r.samples, r.samples[1:])
		r.samples = r.samples[:len(r.samples)-1]
	}

	r.samples = append(r.samples, sample)
}

func (r *JobRun) setInput(info ffmpeg.InputInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.input = &info
}

func (r *JobRun) setOutput(info ffmpeg.OutputInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.output = &info
}

func (r *JobRun) setSummary(summary ffmpeg.EncodeSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary = &summary
}

// transition applies a live-state change; it is a no-op once the run is
// terminal, so a protocol failure recorded early is never overwritten by the
// exit path.
func (r *JobRun) transition(to RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Terminal() {
		return
	}

	r.state = to
	if to.Terminal() {
		r.ended = time.Now()
	}
}

func (r *JobRun) setExit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exitCode = code
	r.exited = true
}
