// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package format

import (
	"fmt"
	"io"

	"github.com/fflowtools/fflow/internal/color"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/fflowtools/fflow/internal/runjob"
)

func statusGlyph(state runjob.RunState) (string, []color.Code) {
	switch state {
	case runjob.StateCompleted:
		return "✓", []color.Code{color.Bold, color.FgGreen}
	case runjob.StateFailed:
		return "✗", []color.Code{color.Bold, color.FgRed}
	case runjob.StateKilled:
		return "~", []color.Code{color.Bold, color.FgYellow}
	default:
		return "?", []color.Code{color.Bold, color.FgWhite}
	}
}

// WriteEntry renders one history entry as a status line plus optional
// summary detail.
func WriteEntry(w io.Writer, e history.Entry) error {
	glyph, codes := statusGlyph(e.State)

	line := fmt.Sprintf("%s %s", color.Colorize(glyph, codes...), color.Colorize(e.Label, codes...))

	if e.Exited && e.ExitCode != 0 {
		line += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}

	if d := e.Duration(); d > 0 {
		line += fmt.Sprintf(" [%s]", Duration(d))
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if e.Summary != nil {
		if _, err := fmt.Fprintf(w, "  %s\n", Summary(e.Summary)); err != nil {
			return err
		}
	}

	return nil
}

// WriteEntries renders a batch outcome or a session history, one entry per
// line, in insertion order.
func WriteEntries(w io.Writer, entries []history.Entry) error {
	for _, e := range entries {
		if err := WriteEntry(w, e); err != nil {
			return err
		}
	}

	return nil
}
