// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fflowtools/fflow/internal/ctxlog"
	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	ctxlog.LevelVar.Set(slog.LevelDebug)

	t.Cleanup(cancel)

	return ctx
}

func shSpec(label, script string) JobSpec {
	return JobSpec{
		Tokens: []string{"/bin/sh", "-c", script},
		Label:  label,
	}
}

func newTestSupervisor() *Supervisor {
	return &Supervisor{PollTimeout: 50 * time.Millisecond}
}

// pollUntil polls until an event of the wanted type arrives, failing the test
// if the run exits first.
func pollUntil(t *testing.T, ctx context.Context, s *Supervisor, want EventType) JobEvent {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		ev, err := s.Poll(ctx)
		require.NoError(t, err, "unexpected poll error")

		if ev.Type == want {
			return ev
		}

		if ev.Type == EventExited {
			t.Fatalf("run exited in state %s before a %s event", ev.State, want)
		}
	}

	t.Fatalf("no %s event within deadline", want)

	return JobEvent{}
}

func TestSupervisorWait_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("success", `
echo "frame=  120 fps= 30 time=00:00:04.00 bitrate= 900.0kbits/s speed=1.5x" >&2
echo "just a log line" >&2
exit 0`))
	require.NoError(t, err, "unexpected spawn error")
	require.NotNil(t, run, "expected a job run")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected completed state")

	code, ok := run.ExitCode()
	require.True(t, ok, "expected a recorded exit code")
	assert.Equal(t, 0, code, "expected exit code 0")

	samples := run.Samples()
	require.Len(t, samples, 1, "expected one progress sample")
	require.NotNil(t, samples[0].Frame, "expected frame to be set")
	assert.Equal(t, int64(120), *samples[0].Frame, "expected frame 120")
	assert.False(t, run.Ended().IsZero(), "expected an end timestamp")
}

func TestSupervisorWait_Failure(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("fail", "exit 3"))
	require.NoError(t, err, "unexpected spawn error")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateFailed, state, "expected failed state")

	code, ok := run.ExitCode()
	require.True(t, ok, "expected a recorded exit code")
	assert.Equal(t, 3, code, "expected exit code 3")
}

func TestSupervisorWait_SuccessExitCodes(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()
	s.SuccessExitCodes = []int{0, 3}

	_, err := s.Spawn(ctx, shSpec("tolerated", "exit 3"))
	require.NoError(t, err, "unexpected spawn error")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected exit code 3 to be treated as success")
}

func TestSupervisorSpawn_NotFound(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, JobSpec{Tokens: []string{"/not/a/real/command"}})
	require.ErrorIs(t, err, ErrCouldNotStartProcess, "expected ErrCouldNotStartProcess")
	assert.Nil(t, run, "expected no job run on spawn failure")
	assert.Nil(t, s.Run(), "expected the supervisor to remain unowned")
}

func TestSupervisorSpawn_EmptySpec(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	_, err := s.Spawn(ctx, JobSpec{})
	require.ErrorIs(t, err, ErrEmptySpec, "expected ErrEmptySpec")
}

func TestSupervisorSpawn_Twice(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	_, err := s.Spawn(ctx, shSpec("first", "exit 0"))
	require.NoError(t, err, "unexpected spawn error")

	_, err = s.Spawn(ctx, shSpec("second", "exit 0"))
	require.ErrorIs(t, err, ErrAlreadySpawned, "expected ErrAlreadySpawned")

	_, err = s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
}

func TestSupervisorPoll_PromptRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("prompt", `
echo "File 'out.mp4' already exists. Overwrite? [y/N]" >&2
read ans
if [ "$ans" = "y" ]; then exit 0; else exit 7; fi`))
	require.NoError(t, err, "unexpected spawn error")

	ev := pollUntil(t, ctx, s, EventPrompt)
	require.NotNil(t, ev.Prompt, "expected a prompt request")
	assert.Equal(t, byte('n'), ev.Prompt.Default, "expected default n")
	assert.Equal(t, []byte("yn"), ev.Prompt.Options, "expected y/n options")
	assert.Equal(t, StateAwaitingInput, run.State(), "expected awaiting input state")

	require.NoError(t, s.Respond('y'), "unexpected respond error")
	assert.Equal(t, StateRunning, run.State(), "expected running state after response")

	ev = pollUntil(t, ctx, s, EventExited)
	assert.Equal(t, StateCompleted, ev.State, "expected completed state")
}

func TestSupervisorPoll_PromptOverlap(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("prompt-overlap", `
echo "File 'a.mp4' already exists. Overwrite? [y/N]" >&2
echo "File 'b.mp4' already exists. Overwrite? [y/N]" >&2
read ans
exit 0`))
	require.NoError(t, err, "unexpected spawn error")

	ev := pollUntil(t, ctx, s, EventPrompt)
	require.NotNil(t, ev.Prompt, "expected a prompt request")
	assert.Equal(t, StateAwaitingInput, run.State(), "expected awaiting input state")

	// a second prompt while one is unanswered is a protocol violation
	var overlapErr error

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, overlapErr = s.Poll(ctx); overlapErr != nil {
			break
		}
	}

	require.ErrorIs(t, overlapErr, ErrPromptOverlap, "expected the overlapping prompt to be rejected")
	assert.Equal(t, StateFailed, run.State(), "expected the run to fail")

	ev = pollUntil(t, ctx, s, EventExited)
	assert.Equal(t, StateFailed, ev.State, "expected the terminal event to report failure")

	require.ErrorIs(t, s.Respond('y'), ErrNotAwaitingInput, "expected the stale prompt to be unanswerable")
}

func TestSupervisorWait_PromptDefault(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	// the default answer for [y/N] is n
	_, err := s.Spawn(ctx, shSpec("prompt-default", `
echo "Overwrite? [y/N]" >&2
read ans
if [ "$ans" = "n" ]; then exit 0; else exit 7; fi`))
	require.NoError(t, err, "unexpected spawn error")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected the default answer to be relayed")
}

func TestSupervisorWait_PromptHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	_, err := s.Spawn(ctx, shSpec("prompt-handler", `
echo "Overwrite? [y/N]" >&2
read ans
if [ "$ans" = "y" ]; then exit 0; else exit 7; fi`))
	require.NoError(t, err, "unexpected spawn error")

	prompts := 0
	state, err := s.Wait(ctx, func(p *ffmpeg.PromptRequest) (byte, error) {
		prompts++
		return 'y', nil
	})
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected completed state")
	assert.Equal(t, 1, prompts, "expected one prompt")
}

func TestSupervisorRespond_NoPrompt(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	require.ErrorIs(t, s.Respond('y'), ErrNotSpawned, "expected ErrNotSpawned before spawn")

	run, err := s.Spawn(ctx, shSpec("no-prompt", "sleep 0.2"))
	require.NoError(t, err, "unexpected spawn error")

	require.ErrorIs(t, s.Respond('y'), ErrNotAwaitingInput, "expected ErrNotAwaitingInput")
	assert.Equal(t, StateRunning, run.State(), "expected state to be unchanged")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected completed state")
}

func TestSupervisorRespond_DeliveryFailed(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	// prints a prompt and exits without reading the answer
	run, err := s.Spawn(ctx, shSpec("prompt-gone", `
echo "Overwrite? [y/N]" >&2
exit 0`))
	require.NoError(t, err, "unexpected spawn error")

	ev := pollUntil(t, ctx, s, EventPrompt)
	require.NotNil(t, ev.Prompt, "expected a prompt request")

	// give the child time to exit so stdin no longer accepts writes
	time.Sleep(200 * time.Millisecond)

	err = s.Respond('y')
	require.ErrorIs(t, err, ErrDeliveryFailed, "expected ErrDeliveryFailed")
	assert.Equal(t, StateAwaitingInput, run.State(), "expected state to be unchanged on delivery failure")

	state, err := s.Wait(ctx, nil)
	require.NoError(t, err, "unexpected wait error")
	assert.Equal(t, StateCompleted, state, "expected re-polling to discover the terminal state")
}

func TestSupervisorKill(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	require.ErrorIs(t, s.Kill(), ErrNotSpawned, "expected ErrNotSpawned before spawn")

	run, err := s.Spawn(ctx, shSpec("long", "sleep 10"))
	require.NoError(t, err, "unexpected spawn error")

	require.NoError(t, s.Kill(), "unexpected kill error")
	assert.Equal(t, StateKilled, run.State(), "expected killed state")

	require.NoError(t, s.Kill(), "expected kill on a terminal run to be a no-op")

	ev, err := s.Poll(ctx)
	require.NoError(t, err, "unexpected poll error")
	assert.Equal(t, EventExited, ev.Type, "expected exited event after kill")
	assert.Equal(t, StateKilled, ev.State, "expected killed state")
}

func TestSupervisorPoll_ImmediateExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("silent", "exit 0"))
	require.NoError(t, err, "unexpected spawn error")

	ev := pollUntil(t, ctx, s, EventExited)
	assert.Equal(t, StateCompleted, ev.State, "expected completed state")
	assert.Empty(t, run.Samples(), "expected no progress samples")

	// a terminal run reports exited on every further poll
	ev, err = s.Poll(ctx)
	require.NoError(t, err, "unexpected poll error")
	assert.Equal(t, EventExited, ev.Type, "expected exited event")
}

func TestSupervisorPoll_NotSpawned(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	_, err := s.Poll(ctx)
	require.ErrorIs(t, err, ErrNotSpawned, "expected ErrNotSpawned")
}

func TestSupervisorPoll_MetadataAndSummary(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	s := newTestSupervisor()

	run, err := s.Spawn(ctx, shSpec("encode", `
echo "Input #0, mov,mp4, from 'in.mp4':" >&2
echo "  Duration: 00:01:30.00, start: 0.000000, bitrate: 1200 kb/s" >&2
echo "  Stream #0:0: Video: h264 (High), yuv420p, 1920x1080, 24 fps" >&2
echo "Output #0, mp4, to 'out.mp4':" >&2
echo "frame=  300 fps= 60 time=00:00:10.00 speed=2.0x" >&2
echo "frame=  360 time=00:00:12.00 Lsize=    1024kB bitrate= 700.0kbits/s speed=2.0x" >&2
exit 0`))
	require.NoError(t, err, "unexpected spawn error")

	var sawInput, sawSummary bool

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := s.Poll(ctx)
		require.NoError(t, err, "unexpected poll error")

		switch ev.Type {
		case EventInput:
			sawInput = true
		case EventSummary:
			sawSummary = true
		}

		if ev.Type == EventExited {
			break
		}
	}

	assert.True(t, sawInput, "expected an input metadata event")
	assert.True(t, sawSummary, "expected a summary event")

	input := run.Input()
	require.NotNil(t, input, "expected recorded input metadata")
	assert.Equal(t, "h264 (High)", input.Codec, "expected h264 codec")
	assert.Equal(t, 1920, input.Width, "expected width 1920")

	summary := run.Summary()
	require.NotNil(t, summary, "expected a recorded summary")
	assert.Equal(t, int64(1024*1024), summary.FinalSizeBytes, "expected the final size in bytes")

	require.NotEmpty(t, run.Samples(), "expected progress samples")
}
