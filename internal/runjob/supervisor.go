// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fflowtools/fflow/internal/ctxlog"
	"github.com/fflowtools/fflow/internal/ffmpeg"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPollTimeout bounds how long a single Poll call blocks waiting
	// for output before reporting EventIdle.
	DefaultPollTimeout = 250 * time.Millisecond
	// DefaultKillGrace is how long Kill waits for the process to confirm
	// exit before declaring it unresponsive.
	DefaultKillGrace = 5 * time.Second

	lineChanBuffer = 256
)

// PromptFunc decides the answer to a confirmation prompt. Returning zero
// selects the prompt's default.
type PromptFunc func(*ffmpeg.PromptRequest) (byte, error)

// RespondWith returns a PromptFunc that answers every prompt with the same
// letter.
func RespondWith(answer byte) PromptFunc {
	return func(*ffmpeg.PromptRequest) (byte, error) {
		return answer, nil
	}
}

// Supervisor owns one child process: it spawns it, streams its diagnostic
// output through the line classifier, relays prompt responses to its stdin
// and collects its exit outcome. A Supervisor supervises exactly one JobRun
// over its lifetime; create a new one per job.
type Supervisor struct {
	// PollTimeout bounds a single Poll; zero selects DefaultPollTimeout.
	PollTimeout time.Duration
	// KillGrace bounds Kill; zero selects DefaultKillGrace.
	KillGrace time.Duration
	// SuccessExitCodes are the exit codes treated as Completed, defaults
	// to {0}.
	SuccessExitCodes []int

	ctx         context.Context
	run         *JobRun
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	lines       chan sourcedLine
	waitCh      chan error
	meta        *ffmpeg.MetadataParser
	pending     *ffmpeg.PromptRequest
	linesClosed bool
	killed      atomic.Bool
}

// New creates a Supervisor with default timeouts.
func New() *Supervisor {
	return &Supervisor{}
}

// Run returns the supervised JobRun, or nil before Spawn.
func (s *Supervisor) Run() *JobRun {
	return s.run
}

// Spawn starts the child process described by spec with its stdin and
// diagnostic streams captured, and returns the new JobRun in StateRunning.
// A spawn failure is reported wrapping ErrCouldNotStartProcess and leaves no
// job behind. A spawned run must be driven to a terminal state via
// Poll/Wait or Kill; an abandoned supervisor can leave the reader
// goroutines blocked on a full line channel.
func (s *Supervisor) Spawn(ctx context.Context, spec JobSpec) (*JobRun, error) {
	if s.run != nil {
		return nil, ErrAlreadySpawned
	}

	if len(spec.Tokens) == 0 {
		return nil, ErrEmptySpec
	}

	logger := ctxlog.Logger(ctx).With("label", spec.GetLabel())

	path, err := exec.LookPath(spec.Executable())
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	cmd := exec.CommandContext(ctx, path, spec.Args()...)
	cmd.Dir = spec.Cwd

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", cmd.Process.Pid, "path", path, "args", spec.Args())

	s.ctx = ctx
	s.cmd = cmd
	s.stdin = stdin
	s.run = newJobRun(spec)
	s.lines = make(chan sourcedLine, lineChanBuffer)
	s.waitCh = make(chan error, 1)
	s.meta = ffmpeg.NewMetadataParser()

	var g errgroup.Group

	g.Go(func() error { return readLines(stdout, streamStdout, s.lines) })
	g.Go(func() error { return readLines(stderr, streamStderr, s.lines) })

	// The pipes must be fully drained before Wait is called, so the line
	// channel always closes before the exit outcome is delivered. Poll
	// relies on that ordering.
	go func() {
		readErr := g.Wait()
		close(s.lines)

		waitErr := cmd.Wait()
		if waitErr == nil && readErr != nil {
			waitErr = readErr
		}

		s.waitCh <- waitErr
	}()

	return s.run, nil
}

// Poll translates the next available unit of output into a JobEvent. It
// blocks at most PollTimeout, returning EventIdle when nothing arrived. Once
// the run is terminal every call returns EventExited immediately.
func (s *Supervisor) Poll(ctx context.Context) (JobEvent, error) {
	if s.run == nil {
		return JobEvent{}, ErrNotSpawned
	}

	if st := s.run.State(); st.Terminal() {
		return JobEvent{Type: EventExited, State: st}, nil
	}

	timeout := s.PollTimeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if !s.linesClosed {
			select {
			case line, ok := <-s.lines:
				if !ok {
					s.linesClosed = true
					continue
				}

				return s.handleLine(ctx, line)

			case <-ctx.Done():
				return JobEvent{}, ctx.Err()

			case <-timer.C:
				return JobEvent{Type: EventIdle}, nil
			}
		}

		select {
		case err := <-s.waitCh:
			return s.finalize(ctx, err), nil

		case <-ctx.Done():
			return JobEvent{}, ctx.Err()

		case <-timer.C:
			return JobEvent{Type: EventIdle}, nil
		}
	}
}

// Respond writes the answer to a pending prompt to the child's stdin,
// followed by a line terminator, and moves the run back to Running. It fails
// with ErrNotAwaitingInput when no prompt is pending, and with
// ErrDeliveryFailed when the child's stdin no longer accepts writes; in the
// latter case the caller should re-poll to discover the real terminal state.
func (s *Supervisor) Respond(answer byte) error {
	if s.run == nil {
		return ErrNotSpawned
	}

	if s.run.State() != StateAwaitingInput || s.pending == nil {
		return ErrNotAwaitingInput
	}

	resolved, err := s.pending.Resolve(answer)
	if err != nil {
		return err
	}

	if _, err := s.stdin.Write([]byte{resolved, '\n'}); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	s.pending = nil
	s.run.transition(StateRunning)

	return nil
}

// Kill requests termination of the child and blocks until the run is
// terminal or the grace period expires. The run always ends in StateKilled;
// ErrCouldNotKillProcess reports a process that would not die in time.
func (s *Supervisor) Kill() error {
	if s.run == nil {
		return ErrNotSpawned
	}

	if s.run.State().Terminal() {
		return nil
	}

	s.killed.Store(true)
	s.killProcess(context.Background())

	grace := s.KillGrace
	if grace <= 0 {
		grace = DefaultKillGrace
	}

	deadline := time.NewTimer(grace)
	defer deadline.Stop()

	for {
		if !s.linesClosed {
			select {
			case _, ok := <-s.lines:
				if !ok {
					s.linesClosed = true
				}
				// discard buffered output so the readers can finish

			case <-deadline.C:
				s.run.transition(StateKilled)
				return ErrCouldNotKillProcess
			}

			continue
		}

		select {
		case err := <-s.waitCh:
			s.finalize(context.Background(), err)
			return nil

		case <-deadline.C:
			s.run.transition(StateKilled)
			return ErrCouldNotKillProcess
		}
	}
}

// Wait blocks until the run reaches a terminal state, relaying prompts to
// onPrompt. A nil onPrompt answers every prompt with its default. A delivery
// failure is resolved by re-polling; any other prompt-handling error kills
// the job and is returned.
func (s *Supervisor) Wait(ctx context.Context, onPrompt PromptFunc) (RunState, error) {
	if s.run == nil {
		return StateFailed, ErrNotSpawned
	}

	var protoErr error

	for {
		ev, err := s.Poll(ctx)

		switch {
		case errors.Is(err, ErrPromptOverlap):
			protoErr = err
			continue

		case err != nil:
			return s.run.State(), err
		}

		switch ev.Type {
		case EventPrompt:
			var answer byte

			if onPrompt != nil {
				answer, err = onPrompt(ev.Prompt)
				if err != nil {
					_ = s.Kill()
					return s.run.State(), err
				}
			}

			err = s.Respond(answer)
			if errors.Is(err, ErrDeliveryFailed) {
				continue
			}

			if err != nil {
				_ = s.Kill()
				return s.run.State(), err
			}

		case EventExited:
			return ev.State, protoErr
		}
	}
}

// handleLine classifies one line and applies it to the run.
func (s *Supervisor) handleLine(ctx context.Context, line sourcedLine) (JobEvent, error) {
	// The final stats line carries progress keys alongside Lsize, so the
	// summary check must come first.
	if strings.Contains(line.text, "Lsize=") {
		if sum, ok := ffmpeg.ParseSummary(line.text); ok {
			s.run.setSummary(sum)
			return JobEvent{Type: EventSummary, Summary: &sum, Line: line.text}, nil
		}
	}

	ev := ffmpeg.ParseLine(line.text)

	switch ev.Kind {
	case ffmpeg.KindPrompt:
		if s.pending != nil {
			ctxlog.Warn(ctx, "overlapping prompt, failing run", "line", line.text)
			s.run.transition(StateFailed)
			s.killProcess(ctx)

			return JobEvent{}, ErrPromptOverlap
		}

		s.pending = ev.Prompt
		s.run.transition(StateAwaitingInput)

		return JobEvent{Type: EventPrompt, Prompt: ev.Prompt, Line: line.text}, nil

	case ffmpeg.KindProgress:
		s.run.addSample(ev.Sample)
		return JobEvent{Type: EventProgress, Sample: ev.Sample, Line: line.text}, nil
	}

	if line.stream == streamStderr {
		// feed both section parsers; ffmpeg spreads metadata over lines
		inInfo, inOK := s.meta.ParseInputLine(line.text)
		outInfo, outOK := s.meta.ParseOutputLine(line.text)

		if inOK {
			s.run.setInput(inInfo)
			return JobEvent{Type: EventInput, Input: &inInfo, Line: line.text}, nil
		}

		if outOK {
			s.run.setOutput(outInfo)
			return JobEvent{Type: EventOutput, Output: &outInfo, Line: line.text}, nil
		}
	}

	return JobEvent{Type: EventLog, Line: line.text, Level: ev.Level}, nil
}

// finalize records the exit outcome and resolves the terminal state. It is
// a no-op on a run already resolved, e.g. by a protocol violation.
func (s *Supervisor) finalize(ctx context.Context, waitErr error) JobEvent {
	code := -1
	if s.cmd.ProcessState != nil {
		code = s.cmd.ProcessState.ExitCode()
	}

	s.run.setExit(code)

	success := s.SuccessExitCodes
	if success == nil {
		success = []int{0}
	}

	var exitErr *exec.ExitError
	cleanExit := waitErr == nil || errors.As(waitErr, &exitErr)

	switch {
	case s.killed.Load() || s.ctx.Err() != nil:
		s.run.transition(StateKilled)

	case cleanExit && slices.Contains(success, code):
		s.run.transition(StateCompleted)

	default:
		s.run.transition(StateFailed)
	}

	st := s.run.State()
	ctxlog.Debug(ctx, "process finished", "state", st.String(), "exitCode", code)

	return JobEvent{Type: EventExited, State: st}
}

func (s *Supervisor) killProcess(ctx context.Context) {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}

	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		ctxlog.Error(ctx, "process kill error", "pid", s.cmd.Process.Pid, "error", err)
	}
}
