// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobcmd holds the execution plumbing shared by the job-running
// subcommands: prompt answering, live display and exit-code mirroring.
package jobcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/format"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Flag names shared by the job-running subcommands.
const (
	YesFlag = "yes"
	NoFlag  = "no"
)

// PromptFlags returns the auto-respond flags every job-running subcommand
// carries.
func PromptFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    YesFlag,
			Aliases: []string{"y"},
			Usage:   "Answer y to every overwrite prompt",
		},
		&cli.BoolFlag{
			Name:    NoFlag,
			Aliases: []string{"n"},
			Usage:   "Answer n to every overwrite prompt",
		},
	}
}

// PromptFunc selects the prompt handler for a subcommand: --yes/--no force
// an answer, an interactive terminal relays the question to the user, and a
// non-interactive run takes each prompt's default.
func PromptFunc(cmd *cli.Command, out io.Writer) runjob.PromptFunc {
	switch {
	case cmd.Bool(YesFlag):
		return runjob.RespondWith('y')
	case cmd.Bool(NoFlag):
		return runjob.RespondWith('n')
	case term.IsTerminal(int(os.Stdin.Fd())):
		return ReadPrompt(os.Stdin, out)
	default:
		return nil
	}
}

// ReadPrompt returns a handler that prints the child's question and reads
// one answer line. An empty answer selects the prompt's default.
func ReadPrompt(in io.Reader, out io.Writer) runjob.PromptFunc {
	reader := bufio.NewReader(in)

	return func(p *ffmpeg.PromptRequest) (byte, error) {
		fmt.Fprintf(out, "%s ", p.Text)

		answer, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			return 0, nil
		}

		return answer[0], nil
	}
}

// Display renders job events as they arrive: metadata and summary lines,
// warnings and errors, and a progress line redrawn in place.
type Display struct {
	out          io.Writer
	total        *time.Duration
	progressLive bool
}

// NewDisplay creates a Display writing to out.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// Handle is a flow.Runner OnEvent callback.
func (d *Display) Handle(_ flow.Command, ev runjob.JobEvent) {
	switch ev.Type {
	case runjob.EventProgress:
		if line, ok := format.Progress(ev.Sample, d.total); ok {
			fmt.Fprintf(d.out, "\r\033[K%s", line)
			d.progressLive = true
		}

	case runjob.EventInput:
		d.breakProgress()
		fmt.Fprintln(d.out, format.Input(ev.Input))

		d.total = ev.Input.Duration

	case runjob.EventOutput:
		d.breakProgress()
		fmt.Fprintln(d.out, format.Output(ev.Output))

	case runjob.EventSummary:
		d.breakProgress()
		fmt.Fprintln(d.out, format.Summary(ev.Summary))

	case runjob.EventLog:
		if ev.Level < ffmpeg.LevelWarning {
			return
		}

		d.breakProgress()
		fmt.Fprintf(d.out, "%s: %s\n", ev.Level, ev.Line)

	case runjob.EventPrompt:
		d.breakProgress()

	case runjob.EventExited:
		d.breakProgress()

		d.total = nil
	}
}

func (d *Display) breakProgress() {
	if !d.progressLive {
		return
	}

	fmt.Fprintln(d.out)

	d.progressLive = false
}

// Run executes the specs in order with the display and the subcommand's
// prompt handling, recording outcomes in log when it is non-nil.
func Run(ctx context.Context, cmd *cli.Command, specs []runjob.JobSpec, policy flow.Policy, log *history.Log) ([]history.Entry, error) {
	commands := make([]flow.Command, 0, len(specs))
	for _, spec := range specs {
		commands = append(commands, flow.Command{Spec: spec})
	}

	out := OutWriter(cmd)
	display := NewDisplay(out)
	runner := &flow.Runner{
		Policy:   policy,
		OnPrompt: PromptFunc(cmd, out),
		OnEvent:  display.Handle,
		History:  log,
	}

	return runner.Run(ctx, flow.Script{Commands: commands})
}

// OutWriter returns the command tree's output writer, defaulting to stdout.
func OutWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

// ExitMirror converts the last outcome into the process exit code: 0 for a
// completed run, the child's exit code for a failure, 1 otherwise.
func ExitMirror(entries []history.Entry) int {
	if len(entries) == 0 {
		return 1
	}

	last := entries[len(entries)-1]

	switch {
	case last.State == runjob.StateCompleted:
		return 0
	case last.Exited && last.ExitCode > 0:
		return last.ExitCode
	default:
		return 1
	}
}
