// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import "strings"

// JobSpec describes one invocation of the media-processing executable: the
// resolved command tokens (executable name first), an optional working
// directory and an optional human-readable label. It is immutable once
// constructed.
type JobSpec struct {
	Tokens []string
	Cwd    string
	Label  string
}

// Executable returns the executable name, or "" for an empty spec.
func (s JobSpec) Executable() string {
	if len(s.Tokens) == 0 {
		return ""
	}

	return s.Tokens[0]
}

// Args returns the arguments that follow the executable name.
func (s JobSpec) Args() []string {
	if len(s.Tokens) <= 1 {
		return nil
	}

	return s.Tokens[1:]
}

// GetLabel returns the label, falling back to the executable name.
func (s JobSpec) GetLabel() string {
	if s.Label != "" {
		return s.Label
	}

	if exe := s.Executable(); exe != "" {
		return exe
	}

	return "job"
}

// String renders the spec as a display command line.
func (s JobSpec) String() string {
	return strings.Join(s.Tokens, " ")
}
