// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ffmpeg classifies the diagnostic output of an ffmpeg process.
// It turns one line of text at a time into a typed event: a progress sample,
// an interactive confirmation prompt, or a plain log line tagged with a
// severity. ParseLine is stateless; only the input/output metadata parser
// keeps state across lines, because ffmpeg spreads stream headers over
// several lines.
package ffmpeg
