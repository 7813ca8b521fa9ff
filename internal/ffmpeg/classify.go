// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

import "strings"

// LogLevel is the severity assigned to a plain diagnostic line.
type LogLevel int

const (
	// LevelNoise is banner and codec chatter not worth surfacing.
	LevelNoise LogLevel = iota
	// LevelInfo is a line worth showing verbatim.
	LevelInfo
	// LevelWarning is a warning or deprecation notice.
	LevelWarning
	// LevelError is a line indicating something went wrong.
	LevelError
)

// String implements the Stringer interface for LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelNoise:
		return "noise"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ffmpeg prints a version banner and per-codec capability chatter on every
// run; none of it is useful to relay.
var noisePrefixes = []string{
	"ffmpeg version",
	"built with",
	"configuration:",
	"libavutil",
	"libavcodec",
	"libavformat",
	"libavdevice",
	"libavfilter",
	"libswscale",
	"libswresample",
	"libpostproc",
	"using cpu capabilities",
}

var noiseNeedles = []string{
	"x264 [info]:",
	"x265 [info]:",
	"cpu capabilities",
	"cpu flags",
}

// Classify assigns a severity to a plain diagnostic line.
func Classify(line string) LogLevel {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LevelNoise
	}

	lower := strings.ToLower(trimmed)

	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return LevelNoise
		}
	}

	for _, needle := range noiseNeedles {
		if strings.Contains(lower, needle) {
			return LevelNoise
		}
	}

	if strings.Contains(lower, "error") ||
		strings.Contains(lower, "invalid") ||
		strings.Contains(lower, "no such file") {
		return LevelError
	}

	if strings.Contains(lower, "warning") || strings.Contains(lower, "deprecated") {
		return LevelWarning
	}

	return LevelInfo
}
