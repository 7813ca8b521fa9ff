// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrUnknownResponse is returned when an answer is not in the prompt's
	// accepted option set.
	ErrUnknownResponse = errors.New("response not in accepted option set")
	// ErrNoDefaultResponse is returned when an empty answer is given to a
	// prompt that has no default option.
	ErrNoDefaultResponse = errors.New("prompt has no default response")
)

// promptRe matches a trimmed line ending in a bracketed set of single-letter
// options, e.g. "Overwrite file.mp4? [y/N]". The question mark before the
// bracket is required; ffmpeg always phrases its confirmations that way.
var promptRe = regexp.MustCompile(`\?\s*.*\[([A-Za-z](?:/[A-Za-z])*)\]$`)

// PromptRequest is a pending interactive confirmation question. Options holds
// the accepted single-character responses in lower case. Default is the
// response chosen on an empty answer, or zero when the prompt has none.
type PromptRequest struct {
	Text    string
	Options []byte
	Default byte
}

// DetectPrompt reports whether the line is an interactive confirmation
// question. The uppercase option inside the brackets is the default; when no
// option is uppercase, "n" is the default if present.
func DetectPrompt(line string) (*PromptRequest, bool) {
	trimmed := strings.TrimSpace(line)

	m := promptRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, false
	}

	prompt := &PromptRequest{Text: trimmed}

	for _, opt := range strings.Split(m[1], "/") {
		c := opt[0]
		if c >= 'A' && c <= 'Z' {
			prompt.Default = c + ('a' - 'A')
		}

		prompt.Options = append(prompt.Options, lowerByte(c))
	}

	if prompt.Default == 0 && prompt.Accepts('n') {
		prompt.Default = 'n'
	}

	return prompt, true
}

// Accepts reports whether the answer is in the accepted option set,
// case-insensitively.
func (p *PromptRequest) Accepts(answer byte) bool {
	answer = lowerByte(answer)
	for _, opt := range p.Options {
		if opt == answer {
			return true
		}
	}

	return false
}

// Resolve maps a raw answer to the response that should be relayed to the
// child process. An empty answer (zero, newline or space) selects the
// default.
func (p *PromptRequest) Resolve(answer byte) (byte, error) {
	switch answer {
	case 0, '\n', '\r', ' ':
		if p.Default == 0 {
			return 0, ErrNoDefaultResponse
		}

		return p.Default, nil
	}

	if !p.Accepts(answer) {
		return 0, ErrUnknownResponse
	}

	return lowerByte(answer), nil
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}
