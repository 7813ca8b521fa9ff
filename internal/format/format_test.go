// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/fflowtools/fflow/internal/ffmpeg"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, "00:00:00", Duration(0))
	assert.Equal(t, "00:01:30", Duration(90*time.Second))
	assert.Equal(t, "02:00:05", Duration(2*time.Hour+5*time.Second))
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "512 B", Bytes(512))
	assert.Equal(t, "1.00 KB", Bytes(1024))
	assert.Equal(t, "1.50 MB", Bytes(1536*1024))
	assert.Equal(t, "2.00 GB", Bytes(2*1024*1024*1024))
}

func TestInput(t *testing.T) {
	dur := 90 * time.Second
	rate := 1200.0

	got := Input(&ffmpeg.InputInfo{
		Path:        "in.mp4",
		Container:   "mov,mp4",
		Codec:       "h264",
		Width:       1920,
		Height:      1080,
		FPS:         23.976,
		Duration:    &dur,
		BitrateKbps: &rate,
	})
	assert.Equal(t,
		"Input  : in.mp4 (mov,mp4/h264 1920x1080 @ 23.98fps, duration=00:01:30, bitrate=1200.0 kb/s)",
		got)

	got = Input(&ffmpeg.InputInfo{})
	assert.Equal(t,
		"Input  : unknown (unknown/unknown unknown @ unknown fps, duration=--:--:--, bitrate=unknown)",
		got)
}

func TestOutput(t *testing.T) {
	got := Output(&ffmpeg.OutputInfo{Path: "out.mp4", Container: "mp4", Codec: "libx264", Width: 1280, Height: 720})
	assert.Equal(t, "Output : out.mp4 (mp4/libx264 1280x720)", got)

	got = Output(&ffmpeg.OutputInfo{})
	assert.Equal(t, "Output : output (unknown/unknown unknown)", got)
}

func TestSummary(t *testing.T) {
	got := Summary(&ffmpeg.EncodeSummary{
		FinalSizeBytes: 2 * 1024 * 1024,
		Duration:       30 * time.Second,
		AvgBitrateKbps: 559.3,
	})
	assert.Equal(t, "Final  : size=2.00 MB avg_bitrate=559.3 kbps duration=00:00:30", got)
}

func TestProgress(t *testing.T) {
	_, ok := Progress(ffmpeg.ProgressSample{}, nil)
	assert.False(t, ok, "expected an empty sample to render nothing")

	frame := int64(240)
	speed := 1.5
	elapsed := 10 * time.Second
	total := 40 * time.Second

	got, ok := Progress(ffmpeg.ProgressSample{Frame: &frame, Speed: &speed, Time: &elapsed}, &total)
	require.True(t, ok, "expected a renderable sample")
	assert.Equal(t, "progress: time=00:00:10/00:00:40 frame=240 speed=1.5x", got)
}

func TestWriteEntries(t *testing.T) {
	started := time.Now()

	entries := []history.Entry{
		{
			Label:   "a.flw:1",
			State:   runjob.StateCompleted,
			Status:  "completed",
			Exited:  true,
			Started: started,
			Ended:   started.Add(3 * time.Second),
			Summary: &ffmpeg.EncodeSummary{FinalSizeBytes: 1024, Duration: 3 * time.Second, AvgBitrateKbps: 100},
		},
		{
			Label:    "a.flw:2",
			State:    runjob.StateFailed,
			Status:   "failed",
			Exited:   true,
			ExitCode: 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))

	out := buf.String()
	assert.Contains(t, out, "a.flw:1")
	assert.Contains(t, out, "[00:00:03]")
	assert.Contains(t, out, "Final  : size=1.00 KB")
	assert.Contains(t, out, "a.flw:2")
	assert.Contains(t, out, "(exit code: 1)")
}
