// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const scanBufferSize = 1024 * 1024 // 1MB line buffer

type streamKind int

const (
	streamStdout streamKind = iota
	streamStderr
)

type sourcedLine struct {
	stream streamKind
	text   string
}

// splitCRLF is a bufio.SplitFunc that treats both '\n' and a bare '\r' as
// line terminators. ffmpeg redraws its progress line with carriage returns,
// so a newline-only split would deliver the whole progress history as one
// line at exit.
func splitCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1

		// consume a \n directly following \r
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		}

		return advance, data[:i], nil
	}

	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// readLines scans a stream into trimmed, non-empty lines and forwards them
// to the shared line channel, preserving per-stream order.
func readLines(r io.Reader, stream streamKind, ch chan<- sourcedLine) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	scanner.Split(splitCRLF)

	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), " \t")
		if text == "" {
			continue
		}

		ch <- sourcedLine{stream: stream, text: text}
	}

	return scanner.Err()
}
