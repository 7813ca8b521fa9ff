// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package preset holds named encoding configurations: the built-in x264
// speed presets plus user-defined presets loaded from a YAML file.
package preset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// Speeds are the encoder speed presets accepted by -preset, fastest first.
var Speeds = []string{
	"ultrafast",
	"superfast",
	"veryfast",
	"faster",
	"fast",
	"medium",
	"slow",
	"slower",
	"veryslow",
	"placebo",
}

// ValidSpeed reports whether name is a recognized speed preset.
func ValidSpeed(name string) bool {
	return slices.Contains(Speeds, name)
}

// ErrLoadPresets is returned when a preset file exists but cannot be read or
// parsed.
var ErrLoadPresets = errors.New("could not load presets file")

// Preset is a named encoding configuration that expands into command
// arguments.
type Preset struct {
	Name       string   `yaml:"name"`
	VideoCodec string   `yaml:"vcodec"`
	AudioCodec string   `yaml:"acodec"`
	Speed      string   `yaml:"preset"`
	ExtraArgs  []string `yaml:"args"`
	builtin    bool
}

// Builtin reports whether the preset ships with the program.
func (p Preset) Builtin() bool {
	return p.builtin
}

// Args expands the preset into its ffmpeg argument contribution.
func (p Preset) Args() []string {
	var args []string

	if p.VideoCodec != "" {
		args = append(args, "-c:v", p.VideoCodec)
	}

	if p.AudioCodec != "" {
		args = append(args, "-c:a", p.AudioCodec)
	}

	if p.Speed != "" {
		args = append(args, "-preset", p.Speed)
	}

	return append(args, p.ExtraArgs...)
}

// Library is an ordered set of presets, built-ins first, unique by name.
type Library struct {
	presets []Preset
	byName  map[string]int
}

func builtins() []Preset {
	out := make([]Preset, 0, len(Speeds))
	for _, speed := range Speeds {
		out = append(out, Preset{
			Name:       speed,
			VideoCodec: "libx264",
			Speed:      speed,
			builtin:    true,
		})
	}

	return out
}

// NewLibrary returns a library holding only the built-in presets.
func NewLibrary() *Library {
	l := &Library{byName: make(map[string]int)}
	for _, p := range builtins() {
		l.add(p)
	}

	return l
}

func (l *Library) add(p Preset) {
	if i, ok := l.byName[p.Name]; ok {
		l.presets[i] = p
		return
	}

	l.byName[p.Name] = len(l.presets)
	l.presets = append(l.presets, p)
}

// Get returns the preset with the given name.
func (l *Library) Get(name string) (Preset, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Preset{}, false
	}

	return l.presets[i], true
}

// All returns the presets in order, built-ins first.
func (l *Library) All() []Preset {
	out := make([]Preset, len(l.presets))
	copy(out, l.presets)

	return out
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// Load returns the built-in library merged with the presets file at path, if
// one exists. A user preset with a built-in's name replaces it.
func Load(fs afero.Fs, path string) (*Library, error) {
	l := NewLibrary()

	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return l, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrLoadPresets, err)
	}

	var doc presetsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrLoadPresets, err)
	}

	for _, p := range doc.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: preset without a name", ErrLoadPresets)
		}

		l.add(p)
	}

	return l, nil
}
