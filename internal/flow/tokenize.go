// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package flow

import "strings"

// Tokenize splits one command line into whitespace-delimited tokens,
// honoring single- and double-quoted substrings. There are no shell
// semantics beyond quoting: no globbing, no redirection, no piping, no
// escape sequences inside quotes.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   byte
		open    bool // an in-progress token, possibly empty ("")
	)

	flush := func() {
		if !open && current.Len() == 0 {
			return
		}

		tokens = append(tokens, current.String())
		current.Reset()
		open = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}

		case c == '\'' || c == '"':
			quote = c
			open = true

		case c == ' ' || c == '\t':
			flush()

		default:
			current.WriteByte(c)
			open = true
		}
	}

	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}

	flush()

	return tokens, nil
}
