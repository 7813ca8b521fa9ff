// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Code is an ANSI select-graphic-rendition parameter.
type Code int

// Text attributes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground hi-intensity colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	escReset = "\033[0m"
)

var enabled = isColorCapable()

// Enabled reports whether output will carry escape codes. It is decided once
// at startup: NO_COLOR wins over FORCE_COLOR, which wins over terminal
// detection on stdout.
func Enabled() bool {
	return enabled
}

// Colorize wraps str in the escape sequence for the given codes, followed by
// a reset. It returns str unchanged when coloring is disabled.
func Colorize(str string, codes ...Code) string {
	if !enabled || len(codes) == 0 {
		return str
	}

	return sequence(codes) + str + escReset
}

func sequence(codes []Code) string {
	params := make([]string, len(codes))
	for i, c := range codes {
		params[i] = strconv.Itoa(int(c))
	}

	return "\033[" + strings.Join(params, ";") + "m"
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
