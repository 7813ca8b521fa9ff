// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console implements the interactive command surface: a line-edited
// prompt with session history, running jobs and batches without leaving the
// program.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/format"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/fflowtools/fflow/internal/preset"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/fflowtools/fflow/internal/translate"
	"github.com/peterh/liner"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const presetsFileFlag = "presets-file"

var commandNames = []string{
	"encode", "probe", "run", "batch", "history", "presets", "help", "exit",
}

// ConsoleCmd starts the interactive console.
var ConsoleCmd = &cli.Command{
	Name:        "console",
	Usage:       "fflow console",
	Description: "Interactive console: encode, probe, run and batch commands with a session-scoped run history.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  presetsFileFlag,
			Usage: "Path to the user presets file",
			Value: "presets.yaml",
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	s := &session{
		out:         jobcmd.OutWriter(cmd),
		fs:          afero.NewOsFs(),
		log:         history.NewLog(),
		presetsFile: cmd.String(presetsFileFlag),
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, name := range commandNames {
			if strings.HasPrefix(name, strings.ToLower(prefix)) {
				out = append(out, name)
			}
		}

		return out
	})

	fmt.Fprintln(s.out, "fflow console. Type help for commands, exit to leave.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt("fflow> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if s.dispatch(ctx, line, input) {
			return nil
		}
	}
}

type session struct {
	out         io.Writer
	fs          afero.Fs
	log         *history.Log
	presetsFile string
}

// dispatch runs one console command; it returns true when the session
// should end.
func (s *session) dispatch(ctx context.Context, line *liner.State, input string) bool {
	tokens, err := flow.Tokenize(input)
	if err != nil {
		s.errorf("%v", err)
		return false
	}

	if len(tokens) == 0 {
		return false
	}

	switch tokens[0] {
	case "exit", "quit":
		return true

	case "help":
		s.help()

	case "history":
		s.showHistory()

	case "presets":
		s.showPresets()

	case "run":
		if len(tokens) < 2 {
			s.errorf("usage: run <command> [args...]")
			return false
		}

		s.runJob(ctx, line, runjob.JobSpec{Tokens: tokens[1:]})

	case "probe":
		if len(tokens) != 2 {
			s.errorf("usage: probe <input>")
			return false
		}

		spec, err := translate.Probe("", tokens[1])
		if err != nil {
			s.errorf("%v", err)
			return false
		}

		s.runJob(ctx, line, spec)

	case "encode":
		spec, err := s.buildEncode(tokens[1:])
		if err != nil {
			s.errorf("%v", err)
			return false
		}

		s.runJob(ctx, line, spec)

	case "batch":
		s.runBatch(ctx, line, tokens[1:])

	default:
		s.errorf("unknown command %q, type help", tokens[0])
	}

	return false
}

func (s *session) help() {
	fmt.Fprint(s.out, `Commands:
  encode -i <input> [-i ...] -o <output> [--vcodec C] [--acodec C] [--speed S] [-p NAME] [extra args...]
  probe <input>
  run <command> [args...]
  batch <file.flw> [--continue-on-failure]
  history
  presets
  exit
`)
}

func (s *session) errorf(msg string, args ...any) {
	fmt.Fprintf(s.out, "error: "+msg+"\n", args...)
}

func (s *session) showHistory() {
	entries := s.log.All()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "no runs recorded in this session")
		return
	}

	if err := format.WriteEntries(s.out, entries); err != nil {
		s.errorf("%v", err)
	}
}

func (s *session) showPresets() {
	lib, err := preset.Load(s.fs, s.presetsFile)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	for _, p := range lib.All() {
		fmt.Fprintf(s.out, "%-12s %s\n", p.Name, strings.Join(p.Args(), " "))
	}
}

func (s *session) runJob(ctx context.Context, line *liner.State, spec runjob.JobSpec) {
	display := jobcmd.NewDisplay(s.out)
	runner := &flow.Runner{
		OnPrompt: linerPrompt(line),
		OnEvent:  display.Handle,
		History:  s.log,
	}

	entries, err := runner.Run(ctx, flow.Script{Commands: []flow.Command{{Spec: spec}}})
	if err != nil {
		s.errorf("%v", err)
		return
	}

	if err := format.WriteEntries(s.out, entries); err != nil {
		s.errorf("%v", err)
	}
}

func (s *session) runBatch(ctx context.Context, line *liner.State, args []string) {
	var (
		path   string
		policy = flow.PolicyStopOnFailure
	)

	for _, arg := range args {
		switch arg {
		case "--continue-on-failure":
			policy = flow.PolicyContinueOnFailure
		default:
			if path != "" {
				s.errorf("usage: batch <file.flw> [--continue-on-failure]")
				return
			}

			path = arg
		}
	}

	if path == "" {
		s.errorf("usage: batch <file.flw> [--continue-on-failure]")
		return
	}

	script, err := flow.ParseFile(s.fs, path)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	display := jobcmd.NewDisplay(s.out)
	runner := &flow.Runner{
		Policy:   policy,
		OnPrompt: linerPrompt(line),
		OnEvent:  display.Handle,
		History:  s.log,
	}

	entries, err := runner.Run(ctx, script)
	if err != nil {
		s.errorf("%v", err)
	}

	if err := format.WriteEntries(s.out, entries); err != nil {
		s.errorf("%v", err)
	}
}

// buildEncode scans the console's encode arguments; unrecognized tokens are
// passed through to the encoder.
func (s *session) buildEncode(args []string) (runjob.JobSpec, error) {
	var (
		req        translate.EncodeRequest
		presetName string
	)

	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}

		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		var err error

		switch args[i] {
		case "-i", "--input":
			var v string
			if v, err = value(i, args[i]); err == nil {
				req.Inputs = append(req.Inputs, v)
			}
		case "-o", "--output":
			req.Output, err = value(i, args[i])
		case "--vcodec":
			req.VideoCodec, err = value(i, args[i])
		case "--acodec":
			req.AudioCodec, err = value(i, args[i])
		case "--speed":
			req.Speed, err = value(i, args[i])
		case "-p", "--preset":
			presetName, err = value(i, args[i])
		default:
			req.ExtraArgs = append(req.ExtraArgs, args[i])
			continue
		}

		if err != nil {
			return runjob.JobSpec{}, err
		}

		i++
	}

	if presetName != "" {
		lib, err := preset.Load(s.fs, s.presetsFile)
		if err != nil {
			return runjob.JobSpec{}, err
		}

		p, ok := lib.Get(presetName)
		if !ok {
			return runjob.JobSpec{}, fmt.Errorf("unknown preset %q", presetName)
		}

		req.ApplyPreset(p)
	}

	return req.JobSpec()
}

func linerPrompt(line *liner.State) runjob.PromptFunc {
	return func(p *ffmpeg.PromptRequest) (byte, error) {
		answer, err := line.Prompt(p.Text + " ")
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
