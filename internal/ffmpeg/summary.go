// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EncodeSummary is the final statistics line ffmpeg prints when an encode
// finishes, e.g. "video:... Lsize=  1024KiB time=00:00:30.00 bitrate= 279.6kbits/s".
type EncodeSummary struct {
	FinalSizeBytes int64
	Duration       time.Duration
	AvgBitrateKbps float64
}

var (
	reLsize       = regexp.MustCompile(`Lsize=\s*([0-9]*\.?[0-9]+)\s*([A-Za-z]+)`)
	reSummaryTime = regexp.MustCompile(`time=\s*([0-9:.]+)`)
	reSummaryRate = regexp.MustCompile(`bitrate=\s*([0-9]*\.?[0-9]+)\s*([A-Za-z/]+)`)
)

// ParseSummary extracts the encode summary from a line. ok is false when the
// line carries none of the summary fields.
func ParseSummary(line string) (EncodeSummary, bool) {
	var (
		summary EncodeSummary
		found   bool
	)

	if m := reLsize.FindStringSubmatch(line); m != nil {
		if v, ok := parseSize(m[1] + m[2]); ok {
			summary.FinalSizeBytes = v
			found = true
		}
	}

	if m := reSummaryTime.FindStringSubmatch(line); m != nil {
		if d, err := ParseTime(m[1]); err == nil {
			summary.Duration = d
			found = true
		}
	}

	if m := reSummaryRate.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if kbps, ok := scaleBitrate(v, m[2]); ok {
				summary.AvgBitrateKbps = kbps
				found = true
			}
		}
	}

	return summary, found
}

func scaleBitrate(v float64, unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "bits/s":
		return v / 1000, true
	case "kbits/s", "kb/s":
		return v, true
	case "mbits/s", "mb/s":
		return v * 1000, true
	default:
		return 0, false
	}
}
