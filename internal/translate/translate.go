// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package translate turns the convenience command surface (encode, probe)
// into raw job token vectors. It is a thin boundary layer: the engine only
// ever sees JobSpec values.
package translate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fflowtools/fflow/internal/preset"
	"github.com/fflowtools/fflow/internal/runjob"
)

// DefaultExecutable is the media-processing executable invoked by the
// convenience commands.
const DefaultExecutable = "ffmpeg"

var (
	// ErrNoInput is returned when an encode or probe names no input.
	ErrNoInput = errors.New("at least one input is required")
	// ErrNoOutput is returned when an encode names no output.
	ErrNoOutput = errors.New("an output path is required")
	// ErrUnknownSpeed is returned for an unrecognized speed preset.
	ErrUnknownSpeed = errors.New("unknown speed preset")
)

// EncodeRequest describes one encode invocation.
type EncodeRequest struct {
	Executable string // defaults to DefaultExecutable
	Inputs     []string
	Output     string
	VideoCodec string
	AudioCodec string
	Speed      string // x264 speed preset for -preset
	ExtraArgs  []string
}

// ApplyPreset fills the request's unset codec and speed fields from a named
// preset and appends its extra arguments.
func (r *EncodeRequest) ApplyPreset(p preset.Preset) {
	if r.VideoCodec == "" {
		r.VideoCodec = p.VideoCodec
	}

	if r.AudioCodec == "" {
		r.AudioCodec = p.AudioCodec
	}

	if r.Speed == "" {
		r.Speed = p.Speed
	}

	r.ExtraArgs = append(r.ExtraArgs, p.ExtraArgs...)
}

// JobSpec translates the request into a job. Argument order follows the
// conventional encoder surface: inputs, codecs, speed preset, extra
// arguments, then the output path.
func (r EncodeRequest) JobSpec() (runjob.JobSpec, error) {
	if len(r.Inputs) == 0 {
		return runjob.JobSpec{}, ErrNoInput
	}

	if r.Output == "" {
		return runjob.JobSpec{}, ErrNoOutput
	}

	if r.Speed != "" && !preset.ValidSpeed(r.Speed) {
		return runjob.JobSpec{}, fmt.Errorf("%w: %q", ErrUnknownSpeed, r.Speed)
	}

	exe := r.Executable
	if exe == "" {
		exe = DefaultExecutable
	}

	tokens := []string{exe}

	for _, input := range r.Inputs {
		tokens = append(tokens, "-i", input)
	}

	if r.VideoCodec != "" {
		tokens = append(tokens, "-c:v", r.VideoCodec)
	}

	if r.AudioCodec != "" {
		tokens = append(tokens, "-c:a", r.AudioCodec)
	}

	if r.Speed != "" {
		tokens = append(tokens, "-preset", r.Speed)
	}

	tokens = append(tokens, r.ExtraArgs...)
	tokens = append(tokens, r.Output)

	return runjob.JobSpec{
		Tokens: tokens,
		Label:  fmt.Sprintf("encode %s", filepath.Base(r.Output)),
	}, nil
}

// Probe translates a probe request: the input is decoded and discarded, so
// the diagnostic stream carries the stream metadata without writing output.
func Probe(executable, input string) (runjob.JobSpec, error) {
	if input == "" {
		return runjob.JobSpec{}, ErrNoInput
	}

	if executable == "" {
		executable = DefaultExecutable
	}

	return runjob.JobSpec{
		Tokens: []string{executable, "-i", input, "-f", "null", "-"},
		Label:  fmt.Sprintf("probe %s", filepath.Base(input)),
	}, nil
}
