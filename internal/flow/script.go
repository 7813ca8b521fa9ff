// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package flow

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/spf13/afero"
)

// Command is one logical job command with its source span, for error
// reporting against the script file.
type Command struct {
	Spec      runjob.JobSpec
	StartLine int
	EndLine   int
}

// Script is an ordered sequence of job commands parsed from a .flw file.
type Script struct {
	Path     string
	Commands []Command
}

// Parse reads batch-script text into a Script. A '#' at the start of a
// trimmed line is a full-line comment, a trailing backslash joins a line
// with the next (one space inserted), and blank lines are skipped. A blank
// line or end of input flushes a dangling continuation.
func Parse(text string) (Script, error) {
	var (
		script  Script
		pending strings.Builder
		start   int
	)

	flush := func(end int) error {
		if pending.Len() == 0 {
			return nil
		}

		logical := pending.String()
		pending.Reset()

		tokens, err := Tokenize(logical)
		if err != nil {
			return fmt.Errorf("line %d: %w", start, err)
		}

		if len(tokens) == 0 {
			return nil
		}

		script.Commands = append(script.Commands, Command{
			Spec: runjob.JobSpec{
				Tokens: tokens,
				Label:  fmt.Sprintf("line %d", start),
			},
			StartLine: start,
			EndLine:   end,
		})

		return nil
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			if err := flush(lineNo - 1); err != nil {
				return Script{}, err
			}

			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		if pending.Len() == 0 {
			start = lineNo
		}

		if body, ok := strings.CutSuffix(trimmed, `\`); ok {
			pending.WriteString(strings.TrimSpace(body))
			pending.WriteByte(' ')

			continue
		}

		pending.WriteString(trimmed)

		if err := flush(lineNo); err != nil {
			return Script{}, err
		}
	}

	if err := flush(len(lines)); err != nil {
		return Script{}, err
	}

	return script, nil
}

// ParseFile loads and parses a script through the given filesystem. Command
// labels carry the file's base name for log readability.
func ParseFile(fs afero.Fs, path string) (Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Script{}, errors.Join(ErrReadScript, err)
	}

	script, err := Parse(string(data))
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}

	script.Path = path

	base := filepath.Base(path)
	for i := range script.Commands {
		script.Commands[i].Spec.Label = fmt.Sprintf("%s:%d", base, script.Commands[i].StartLine)
	}

	return script, nil
}
