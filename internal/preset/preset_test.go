// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package preset

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSpeed(t *testing.T) {
	assert.True(t, ValidSpeed("medium"))
	assert.True(t, ValidSpeed("placebo"))
	assert.False(t, ValidSpeed("warp9"))
}

func TestNewLibraryBuiltins(t *testing.T) {
	l := NewLibrary()

	all := l.All()
	require.Len(t, all, len(Speeds), "expected one built-in per speed preset")
	assert.Equal(t, "ultrafast", all[0].Name, "expected fastest first")
	assert.True(t, all[0].Builtin())

	p, ok := l.Get("slow")
	require.True(t, ok, "expected the slow preset")
	assert.Equal(t, []string{"-c:v", "libx264", "-preset", "slow"}, p.Args())
}

func TestPresetArgs(t *testing.T) {
	p := Preset{
		Name:       "archive",
		VideoCodec: "libx265",
		AudioCodec: "copy",
		Speed:      "slow",
		ExtraArgs:  []string{"-crf", "18"},
	}
	assert.Equal(t,
		[]string{"-c:v", "libx265", "-c:a", "copy", "-preset", "slow", "-crf", "18"},
		p.Args())

	assert.Empty(t, Preset{Name: "empty"}.Args())
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "presets.yaml", []byte(`
presets:
  - name: archive
    vcodec: libx265
    acodec: copy
    preset: slow
    args: ["-crf", "18"]
  - name: medium
    vcodec: libx264
    preset: medium
    args: ["-crf", "20"]
`), 0o644))

	l, err := Load(fs, "presets.yaml")
	require.NoError(t, err, "unexpected load error")

	// user presets are appended after the built-ins
	require.Len(t, l.All(), len(Speeds)+1, "expected one new preset")

	p, ok := l.Get("archive")
	require.True(t, ok, "expected the user preset")
	assert.False(t, p.Builtin())
	assert.Equal(t, []string{"-c:v", "libx265", "-c:a", "copy", "-preset", "slow", "-crf", "18"}, p.Args())

	// a user preset with a built-in's name replaces it
	p, ok = l.Get("medium")
	require.True(t, ok)
	assert.Contains(t, p.ExtraArgs, "-crf", "expected the built-in to be replaced")
}

func TestLoadMissingFile(t *testing.T) {
	l, err := Load(afero.NewMemMapFs(), "presets.yaml")
	require.NoError(t, err, "a missing presets file is not an error")
	assert.Len(t, l.All(), len(Speeds))
}

func TestLoadMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "presets.yaml", []byte("presets: [oops"), 0o644))

	_, err := Load(fs, "presets.yaml")
	require.ErrorIs(t, err, ErrLoadPresets, "expected ErrLoadPresets")
}

func TestLoadUnnamedPreset(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "presets.yaml", []byte("presets:\n  - vcodec: libx264\n"), 0o644))

	_, err := Load(fs, "presets.yaml")
	require.ErrorIs(t, err, ErrLoadPresets, "expected ErrLoadPresets")
}
