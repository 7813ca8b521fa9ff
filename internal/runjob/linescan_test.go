// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) []string {
	t.Helper()

	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(splitCRLF)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	require.NoError(t, scanner.Err(), "unexpected scan error")

	return lines
}

func TestSplitCRLF_Newlines(t *testing.T) {
	lines := scanAll(t, "one\ntwo\nthree\n")
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestSplitCRLF_CarriageReturns(t *testing.T) {
	// ffmpeg redraws its progress line with bare carriage returns
	lines := scanAll(t, "frame=1\rframe=2\rframe=3\n")
	assert.Equal(t, []string{"frame=1", "frame=2", "frame=3"}, lines)
}

func TestSplitCRLF_CRLFPairs(t *testing.T) {
	lines := scanAll(t, "one\r\ntwo\r\n")
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestSplitCRLF_TrailingRemainder(t *testing.T) {
	lines := scanAll(t, "one\ntwo")
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestReadLines(t *testing.T) {
	input := "first  \n\n   \nsecond\rthird\t\n"
	ch := make(chan sourcedLine, 16)

	err := readLines(strings.NewReader(input), streamStderr, ch)
	require.NoError(t, err, "unexpected read error")
	close(ch)

	var lines []sourcedLine
	for line := range ch {
		lines = append(lines, line)
	}

	require.Len(t, lines, 3, "expected blank lines to be skipped")
	assert.Equal(t, "first", lines[0].text, "expected trailing spaces trimmed")
	assert.Equal(t, "second", lines[1].text)
	assert.Equal(t, "third", lines[2].text, "expected trailing tab trimmed")

	for _, line := range lines {
		assert.Equal(t, streamStderr, line.stream, "expected the source stream to be tagged")
	}
}
