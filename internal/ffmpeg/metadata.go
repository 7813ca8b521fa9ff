// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InputInfo describes one input declared in the diagnostic stream.
type InputInfo struct {
	Path        string
	Container   string
	Codec       string
	Width       int
	Height      int
	FPS         float64
	Duration    *time.Duration
	BitrateKbps *float64
}

// OutputInfo describes one output declared in the diagnostic stream.
type OutputInfo struct {
	Path      string
	Container string
	Codec     string
	Width     int
	Height    int
}

var (
	reInputHeader  = regexp.MustCompile(`^Input #\d+,\s*(.+),\s*from '([^']+)'`)
	reOutputHeader = regexp.MustCompile(`^Output #\d+,\s*([^,]+),\s*to '([^']+)'`)
	reDuration     = regexp.MustCompile(`Duration:\s*([0-9:.]+)`)
	reHdrBitrate   = regexp.MustCompile(`bitrate:\s*([0-9]*\.?[0-9]+)\s*kb/s`)
	reStreamVideo  = regexp.MustCompile(`Stream #\d+:\d+.*Video:\s*([^,]+)`)
	reResolution   = regexp.MustCompile(`(\d{2,5})x(\d{2,5})`)
	reFPS          = regexp.MustCompile(`([0-9]*\.?[0-9]+)\s*fps`)
)

type metadataSection int

const (
	sectionOther metadataSection = iota
	sectionInput
	sectionOutput
)

// MetadataParser accumulates input/output stream headers, which ffmpeg
// spreads over several indented lines after an "Input #" or "Output #"
// header. It emits an InputInfo or OutputInfo once enough of a section has
// been seen. One parser instance serves one process invocation.
type MetadataParser struct {
	section         metadataSection
	inputEmitted    bool
	inDuration      *time.Duration
	inContainer     string
	inPath          string
	inBitrateKbps   *float64
	outContainer  string
	outPath       string
	outHeaderSeen bool
}

// NewMetadataParser creates an empty MetadataParser.
func NewMetadataParser() *MetadataParser {
	return &MetadataParser{}
}

// ParseInputLine consumes one line and returns a completed InputInfo when the
// input section has produced one.
func (p *MetadataParser) ParseInputLine(line string) (InputInfo, bool) {
	if m := reInputHeader.FindStringSubmatch(line); m != nil {
		p.inContainer = strings.TrimSpace(m[1])
		p.inPath = m[2]
		p.inDuration = nil
		p.inBitrateKbps = nil
		p.inputEmitted = false
		p.section = sectionInput

		return InputInfo{}, false
	}

	if reOutputHeader.MatchString(line) {
		p.section = sectionOutput

		// Flush a pending input that never showed a video stream.
		if !p.inputEmitted {
			if info, ok := p.buildInput("", 0, 0, 0); ok {
				p.inputEmitted = true
				return info, true
			}
		}

		return InputInfo{}, false
	}

	if p.section != sectionInput {
		return InputInfo{}, false
	}

	if m := reDuration.FindStringSubmatch(line); m != nil {
		if d, err := ParseTime(m[1]); err == nil {
			p.inDuration = &d
		}

		if bm := reHdrBitrate.FindStringSubmatch(line); bm != nil {
			if v, err := strconv.ParseFloat(bm[1], 64); err == nil {
				p.inBitrateKbps = &v
			}
		}

		return InputInfo{}, false
	}

	if p.inputEmitted {
		return InputInfo{}, false
	}

	codec := ""
	if m := reStreamVideo.FindStringSubmatch(line); m != nil {
		codec = strings.TrimSpace(m[1])
	}

	width, height := parseResolution(line)
	fps := parseFPS(line)

	if codec == "" && width == 0 && height == 0 && fps == 0 {
		return InputInfo{}, false
	}

	info, ok := p.buildInput(codec, width, height, fps)
	if ok {
		p.inputEmitted = true
	}

	return info, ok
}

// ParseOutputLine consumes one line and returns a completed OutputInfo once
// the output section has shown its video stream.
func (p *MetadataParser) ParseOutputLine(line string) (OutputInfo, bool) {
	if m := reOutputHeader.FindStringSubmatch(line); m != nil {
		p.outContainer = strings.TrimSpace(m[1])
		p.outPath = m[2]
		p.outHeaderSeen = true
		p.section = sectionOutput

		return OutputInfo{}, false
	}

	if p.section != sectionOutput || !p.outHeaderSeen {
		return OutputInfo{}, false
	}

	codec := ""
	if m := reStreamVideo.FindStringSubmatch(line); m != nil {
		codec = strings.TrimSpace(m[1])
	}

	if codec == "" {
		return OutputInfo{}, false
	}

	width, height := parseResolution(line)

	info := OutputInfo{
		Container: p.outContainer,
		Path:      p.outPath,
		Codec:     codec,
		Width:     width,
		Height:    height,
	}
	p.outContainer = ""
	p.outPath = ""
	p.outHeaderSeen = false

	return info, true
}

func (p *MetadataParser) buildInput(codec string, width, height int, fps float64) (InputInfo, bool) {
	if codec == "" && width == 0 && height == 0 && fps == 0 &&
		p.inContainer == "" && p.inPath == "" &&
		p.inDuration == nil && p.inBitrateKbps == nil {
		return InputInfo{}, false
	}

	return InputInfo{
		Path:        p.inPath,
		Container:   p.inContainer,
		Codec:       codec,
		Width:       width,
		Height:      height,
		FPS:         fps,
		Duration:    p.inDuration,
		BitrateKbps: p.inBitrateKbps,
	}, true
}

func parseResolution(line string) (int, int) {
	m := reResolution.FindStringSubmatch(line)
	if m == nil {
		return 0, 0
	}

	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0
	}

	h, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0
	}

	return w, h
}

func parseFPS(line string) float64 {
	m := reFPS.FindStringSubmatch(line)
	if m == nil {
		return 0
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	return v
}
