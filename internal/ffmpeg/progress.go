// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ProgressSample is one parsed snapshot of encoding progress. Every field is
// optional because ffmpeg reports a varying subset per line; nil means the
// field was absent or malformed on that line. A sample is never mutated after
// creation.
type ProgressSample struct {
	Frame       *int64
	FPS         *float64
	Time        *time.Duration
	Speed       *float64
	SizeBytes   *int64
	BitrateKbps *float64
}

// Empty reports whether no recognized field was present.
func (s ProgressSample) Empty() bool {
	return s.Frame == nil && s.FPS == nil && s.Time == nil &&
		s.Speed == nil && s.SizeBytes == nil && s.BitrateKbps == nil
}

// ParseProgress scans one line for whitespace- or comma-separated key=value
// progress tokens. Unknown keys are ignored and malformed values for known
// keys are dropped, leaving that field nil. ok is false when no recognized
// field was found.
//
// ffmpeg pads some values ("frame=  123"), so an empty value consumes the
// following token.
func ParseProgress(line string) (sample ProgressSample, ok bool) {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	for i := 0; i < len(tokens); i++ {
		key, value, found := strings.Cut(tokens[i], "=")
		if !found {
			continue
		}

		if value == "" && i+1 < len(tokens) && !strings.Contains(tokens[i+1], "=") {
			i++
			value = tokens[i]
		}

		if value == "" || value == "N/A" {
			continue
		}

		switch key {
		case "frame":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				sample.Frame = &v
			}
		case "fps":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				sample.FPS = &v
			}
		case "time", "out_time":
			if d, err := ParseTime(value); err == nil {
				sample.Time = &d
			}
		case "speed":
			if v, ok := parseSpeed(value); ok {
				sample.Speed = &v
			}
		case "size", "Lsize", "total_size":
			if v, ok := parseSize(value); ok {
				sample.SizeBytes = &v
			}
		case "bitrate":
			if v, ok := parseBitrate(value); ok {
				sample.BitrateKbps = &v
			}
		}
	}

	return sample, !sample.Empty()
}

// ParseTime parses an ffmpeg timestamp of the form HH:MM:SS or HH:MM:SS.ff
// into a duration.
func ParseTime(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, strconv.ErrSyntax
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}

	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, err
	}

	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}

	total := float64(hours*3600+minutes*60) + seconds

	return time.Duration(total * float64(time.Second)), nil
}

// parseSpeed parses an encoding speed multiplier with a trailing "x",
// e.g. "2.5x" -> 2.5.
func parseSpeed(value string) (float64, bool) {
	trimmed := strings.TrimSuffix(value, "x")
	if trimmed == value {
		return 0, false
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// parseSize parses an ffmpeg size value such as "256kB" or "1024KiB" into
// bytes. ffmpeg's kB is the binary kilobyte.
func parseSize(value string) (int64, bool) {
	num, unit, ok := splitNumberUnit(value)
	if !ok {
		// a bare number is already bytes (-progress key=value stream)
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}

		return v, true
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	var mult float64

	switch strings.ToLower(unit) {
	case "b":
		mult = 1
	case "kb", "kib":
		mult = 1 << 10
	case "mb", "mib":
		mult = 1 << 20
	case "gb", "gib":
		mult = 1 << 30
	default:
		return 0, false
	}

	return int64(v * mult), true
}

// parseBitrate parses an ffmpeg bitrate value such as "129.5kbits/s" into
// kilobits per second.
func parseBitrate(value string) (float64, bool) {
	num, unit, ok := splitNumberUnit(value)
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	return scaleBitrate(v, unit)
}

// splitNumberUnit splits a value like "129.5kbits/s" into its leading numeric
// part and the trailing unit.
func splitNumberUnit(value string) (num, unit string, ok bool) {
	trimmed := strings.TrimSpace(value)

	idx := 0
	for idx < len(trimmed) {
		c := trimmed[idx]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		idx++
	}

	if idx == 0 || idx >= len(trimmed) {
		return "", "", false
	}

	return trimmed[:idx], strings.TrimSpace(trimmed[idx:]), true
}
