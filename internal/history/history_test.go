// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"testing"
	"time"

	"github.com/fflowtools/fflow/internal/ctxlog"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLogAppendAll(t *testing.T) {
	log := NewLog()
	assert.Zero(t, log.Len(), "expected an empty log")

	log.Append(Entry{ID: "a"})
	log.Append(Entry{ID: "b"})
	log.Append(Entry{ID: "a"})

	entries := log.All()
	require.Len(t, entries, 3, "expected repeated entries to be kept")
	assert.Equal(t, "a", entries[0].ID, "expected insertion order")
	assert.Equal(t, "b", entries[1].ID)

	entries[0].ID = "mutated"
	assert.Equal(t, "a", log.All()[0].ID, "expected All to return a snapshot")
}

func TestEntryHelpers(t *testing.T) {
	var empty Entry
	assert.Zero(t, empty.Duration(), "expected zero duration without timestamps")
	assert.Nil(t, empty.LastSample(), "expected no last sample")

	started := time.Now()
	e := Entry{Started: started, Ended: started.Add(2 * time.Second)}
	assert.Equal(t, 2*time.Second, e.Duration())
}

func TestFromRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	s := &runjob.Supervisor{PollTimeout: 50 * time.Millisecond}

	// emit more progress lines than a history entry retains
	run, err := s.Spawn(ctx, runjob.JobSpec{
		Tokens: []string{"/bin/sh", "-c", `
i=0
while [ $i -lt 20 ]; do
  echo "frame= $i time=00:00:01.00 speed=1.0x" >&2
  i=$((i+1))
done
exit 0`},
		Label: "sample tail",
	})
	require.NoError(t, err, "unexpected spawn error")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	require.Equal(t, runjob.StateCompleted, state, "expected completed state")

	entry := FromRun(run)
	assert.Equal(t, run.ID, entry.ID)
	assert.Equal(t, "sample tail", entry.Label)
	assert.Equal(t, "completed", entry.Status)
	assert.True(t, entry.Exited, "expected a recorded exit")
	assert.Zero(t, entry.ExitCode, "expected exit code 0")
	assert.Positive(t, entry.Duration(), "expected a positive duration")

	require.Len(t, entry.Samples, MaxEntrySamples, "expected the sample tail to be bounded")

	last := entry.LastSample()
	require.NotNil(t, last, "expected a last sample")
	require.NotNil(t, last.Frame, "expected frame to be set")
	assert.Equal(t, int64(19), *last.Frame, "expected the most recent sample to be retained")
}
