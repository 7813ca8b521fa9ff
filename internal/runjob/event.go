// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runjob

import "github.com/fflowtools/fflow/internal/ffmpeg"

// EventType identifies what one Poll call observed.
type EventType int

const (
	// EventIdle means nothing arrived within the poll timeout.
	EventIdle EventType = iota
	// EventLog is a plain diagnostic line.
	EventLog
	// EventProgress is a new progress sample.
	EventProgress
	// EventInput is parsed input-stream metadata.
	EventInput
	// EventOutput is parsed output-stream metadata.
	EventOutput
	// EventSummary is the final encode summary.
	EventSummary
	// EventPrompt is a pending confirmation question; the run is now
	// awaiting input and the caller must Respond before polling on.
	EventPrompt
	// EventExited means the run reached a terminal state.
	EventExited
)

// String implements the Stringer interface for EventType.
func (t EventType) String() string {
	switch t {
	case EventIdle:
		return "idle"
	case EventLog:
		return "log"
	case EventProgress:
		return "progress"
	case EventInput:
		return "input"
	case EventOutput:
		return "output"
	case EventSummary:
		return "summary"
	case EventPrompt:
		return "prompt"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

// JobEvent is one unit of observed output, translated into the job model.
type JobEvent struct {
	Type    EventType
	Line    string                 // original text for EventLog
	Level   ffmpeg.LogLevel        // severity for EventLog
	Sample  ffmpeg.ProgressSample  // set for EventProgress
	Prompt  *ffmpeg.PromptRequest  // set for EventPrompt
	Input   *ffmpeg.InputInfo      // set for EventInput
	Output  *ffmpeg.OutputInfo     // set for EventOutput
	Summary *ffmpeg.EncodeSummary  // set for EventSummary
	State   RunState               // set for EventExited
}
