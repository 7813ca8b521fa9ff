// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package history keeps an append-only, session-scoped record of finished
// job runs.
package history

import (
	"sync"
	"time"

	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/fflowtools/fflow/internal/runjob"
)

// MaxEntrySamples bounds the progress tail copied from a run into its
// history entry.
const MaxEntrySamples = 16

// Entry is the immutable record of one finished job run.
type Entry struct {
	ID       string                  `json:"id"`
	Command  string                  `json:"command"`
	Label    string                  `json:"label"`
	State    runjob.RunState         `json:"-"`
	Status   string                  `json:"status"`
	ExitCode int                     `json:"exitCode"`
	Exited   bool                    `json:"exited"`
	Started  time.Time               `json:"started"`
	Ended    time.Time               `json:"ended"`
	Samples  []ffmpeg.ProgressSample `json:"-"`
	Input    *ffmpeg.InputInfo       `json:"input,omitempty"`
	Output   *ffmpeg.OutputInfo      `json:"output,omitempty"`
	Summary  *ffmpeg.EncodeSummary   `json:"summary,omitempty"`
}

// Duration returns the wall-clock span of the run, or zero when the entry
// has no end timestamp.
func (e Entry) Duration() time.Duration {
	if e.Ended.IsZero() || e.Started.IsZero() {
		return 0
	}

	return e.Ended.Sub(e.Started)
}

// LastSample returns the most recent progress sample, or nil when the run
// produced none.
func (e Entry) LastSample() *ffmpeg.ProgressSample {
	if len(e.Samples) == 0 {
		return nil
	}

	return &e.Samples[len(e.Samples)-1]
}

// FromRun converts a terminal run into its history entry, retaining at most
// the last MaxEntrySamples progress samples.
func FromRun(run *runjob.JobRun) Entry {
	samples := run.Samples()
	if len(samples) > MaxEntrySamples {
		samples = samples[len(samples)-MaxEntrySamples:]
	}

	state := run.State()
	code, exited := run.ExitCode()

	return Entry{
		ID:       run.ID,
		Command:  run.Spec.String(),
		Label:    run.Spec.GetLabel(),
		State:    state,
		Status:   state.String(),
		ExitCode: code,
		Exited:   exited,
		Started:  run.Started(),
		Ended:    run.Ended(),
		Samples:  samples,
		Input:    run.Input(),
		Output:   run.Output(),
		Summary:  run.Summary(),
	}
}

// Log is an append-only, insertion-ordered record of entries. It is safe
// under concurrent callers, though the engine appends from a single control
// flow.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Append records one entry. Repeated runs of the same command each produce a
// distinct entry.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
}

// All returns a snapshot of the entries in insertion order.
func (l *Log) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
