// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fflowtools/fflow/internal/ctxlog"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/hashicorp/go-multierror"
)

// Policy decides whether a batch proceeds past a job that did not complete.
type Policy int

const (
	// PolicyStopOnFailure ends the batch at the first job that fails, is
	// killed or cannot be spawned, leaving later commands unexecuted.
	PolicyStopOnFailure Policy = iota
	// PolicyContinueOnFailure attempts every command regardless of earlier
	// outcomes.
	PolicyContinueOnFailure
)

// String implements the Stringer interface for Policy.
func (p Policy) String() string {
	switch p {
	case PolicyStopOnFailure:
		return "stop-on-failure"
	case PolicyContinueOnFailure:
		return "continue-on-failure"
	default:
		return "unknown"
	}
}

// Runner executes a script's commands strictly one at a time; a command does
// not start until the previous run is terminal, since two encoders contending
// for the same output path would corrupt results.
type Runner struct {
	// Policy defaults to PolicyStopOnFailure.
	Policy Policy
	// OnPrompt is relayed to each job's supervisor; nil answers every
	// prompt with its default.
	OnPrompt runjob.PromptFunc
	// OnEvent, when set, observes every non-idle event of every job, e.g.
	// for live progress display.
	OnEvent func(cmd Command, ev runjob.JobEvent)
	// History, when set, receives an entry for every finished run.
	History *history.Log
	// PollTimeout is passed to each supervisor; zero selects the default.
	PollTimeout time.Duration
}

// Run executes the script and returns the per-job outcomes in order. Spawn
// and protocol failures are aggregated into the returned error; a job
// finishing in StateFailed is an outcome, not an error.
func (r *Runner) Run(ctx context.Context, script Script) ([]history.Entry, error) {
	if len(script.Commands) == 0 {
		return nil, ErrEmptyScript
	}

	var (
		entries []history.Entry
		errs    *multierror.Error
	)

	for _, cmd := range script.Commands {
		if ctx.Err() != nil {
			errs = multierror.Append(errs, ctx.Err())
			break
		}

		ctxlog.Info(ctx, "starting job", "label", cmd.Spec.GetLabel(), "command", cmd.Spec.String())

		entry, err := r.runOne(ctx, cmd)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", cmd.Spec.GetLabel(), err))
		}

		failed := err != nil
		if entry != nil {
			entries = append(entries, *entry)

			if r.History != nil {
				r.History.Append(*entry)
			}

			failed = failed || entry.State != runjob.StateCompleted
		}

		if failed && r.Policy == PolicyStopOnFailure {
			ctxlog.Warn(ctx, "stopping batch on failure", "label", cmd.Spec.GetLabel())
			break
		}
	}

	return entries, errs.ErrorOrNil()
}

func (r *Runner) runOne(ctx context.Context, cmd Command) (*history.Entry, error) {
	s := &runjob.Supervisor{PollTimeout: r.PollTimeout}

	run, err := s.Spawn(ctx, cmd.Spec)
	if err != nil {
		return nil, err
	}

	var waitErr error

	if r.OnEvent == nil {
		_, waitErr = s.Wait(ctx, r.OnPrompt)
	} else {
		waitErr = r.observe(ctx, s, cmd)
	}

	if waitErr != nil {
		// settle the run so the history entry records a terminal state
		_ = s.Kill()
	}

	entry := history.FromRun(run)
	ctxlog.Info(ctx, "job finished",
		"label", cmd.Spec.GetLabel(),
		"state", entry.Status,
		"exitCode", entry.ExitCode,
	)

	return &entry, waitErr
}

// observe drives the poll loop by hand so every event reaches OnEvent; the
// prompt and exit handling mirrors Supervisor.Wait.
func (r *Runner) observe(ctx context.Context, s *runjob.Supervisor, cmd Command) error {
	var protoErr error

	for {
		ev, err := s.Poll(ctx)

		switch {
		case errors.Is(err, runjob.ErrPromptOverlap):
			protoErr = err
			continue

		case err != nil:
			return err
		}

		if ev.Type != runjob.EventIdle {
			r.OnEvent(cmd, ev)
		}

		switch ev.Type {
		case runjob.EventPrompt:
			var answer byte

			if r.OnPrompt != nil {
				answer, err = r.OnPrompt(ev.Prompt)
				if err != nil {
					_ = s.Kill()
					return err
				}
			}

			err = s.Respond(answer)
			if errors.Is(err, runjob.ErrDeliveryFailed) {
				continue
			}

			if err != nil {
				_ = s.Kill()
				return err
			}

		case runjob.EventExited:
			return protoErr
		}
	}
}
