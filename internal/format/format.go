// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/fflowtools/fflow/internal/ffmpeg"
)

const unknown = "unknown"

// Duration renders a duration as HH:MM:SS.
func Duration(d time.Duration) string {
	total := int64(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Bytes renders a byte count with a binary unit.
func Bytes(n int64) string {
	const (
		kb = 1024.0
		mb = kb * 1024.0
		gb = mb * 1024.0
	)

	v := float64(n)

	switch {
	case v >= gb:
		return fmt.Sprintf("%.2f GB", v/gb)
	case v >= mb:
		return fmt.Sprintf("%.2f MB", v/mb)
	case v >= kb:
		return fmt.Sprintf("%.2f KB", v/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Input renders one line describing an input stream.
func Input(info *ffmpeg.InputInfo) string {
	resolution := unknown
	if info.Width > 0 && info.Height > 0 {
		resolution = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}

	fps := "unknown fps"
	if info.FPS > 0 {
		fps = fmt.Sprintf("%.2ffps", info.FPS)
	}

	duration := "--:--:--"
	if info.Duration != nil {
		duration = Duration(*info.Duration)
	}

	bitrate := unknown
	if info.BitrateKbps != nil {
		bitrate = fmt.Sprintf("%.1f kb/s", *info.BitrateKbps)
	}

	return fmt.Sprintf("Input  : %s (%s/%s %s @ %s, duration=%s, bitrate=%s)",
		orUnknown(info.Path), orUnknown(info.Container), orUnknown(info.Codec),
		resolution, fps, duration, bitrate)
}

// Output renders one line describing an output stream.
func Output(info *ffmpeg.OutputInfo) string {
	resolution := unknown
	if info.Width > 0 && info.Height > 0 {
		resolution = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}

	path := info.Path
	if path == "" {
		path = "output"
	}

	return fmt.Sprintf("Output : %s (%s/%s %s)",
		path, orUnknown(info.Container), orUnknown(info.Codec), resolution)
}

// Summary renders the final encode statistics line.
func Summary(s *ffmpeg.EncodeSummary) string {
	bitrate := unknown
	if s.AvgBitrateKbps > 0 {
		bitrate = fmt.Sprintf("%.1f kbps", s.AvgBitrateKbps)
	}

	return fmt.Sprintf("Final  : size=%s avg_bitrate=%s duration=%s",
		Bytes(s.FinalSizeBytes), bitrate, Duration(s.Duration))
}

// Progress renders a live progress line relative to an optional total
// duration. ok is false for a sample with nothing to show.
func Progress(sample ffmpeg.ProgressSample, total *time.Duration) (string, bool) {
	if sample.Empty() {
		return "", false
	}

	elapsed := "--:--:--"
	if sample.Time != nil {
		elapsed = Duration(*sample.Time)
	}

	totalStr := "--:--:--"
	if total != nil {
		totalStr = Duration(*total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "progress: time=%s/%s", elapsed, totalStr)

	if sample.Frame != nil {
		fmt.Fprintf(&b, " frame=%d", *sample.Frame)
	}

	if sample.Speed != nil {
		fmt.Fprintf(&b, " speed=%.2gx", *sample.Speed)
	}

	if sample.SizeBytes != nil {
		fmt.Fprintf(&b, " size=%s", Bytes(*sample.SizeBytes))
	}

	return b.String(), true
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}

	return s
}
