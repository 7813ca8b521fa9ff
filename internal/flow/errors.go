// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package flow

import "errors"

var (
	// ErrUnterminatedQuote is returned when a command line opens a quoted
	// substring and never closes it.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrEmptyScript is returned when a script contains no job commands.
	ErrEmptyScript = errors.New("script contains no job commands")
	// ErrReadScript is returned when a script file cannot be read.
	ErrReadScript = errors.New("could not read script file")
)
