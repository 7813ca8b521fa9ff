// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ffmpeg

// Kind is the classification of a single diagnostic line.
type Kind int

const (
	// KindPlain is any line that is neither a progress sample nor a prompt.
	KindPlain Kind = iota
	// KindProgress is a line carrying at least one recognized progress field.
	KindProgress
	// KindPrompt is an interactive confirmation question awaiting an answer.
	KindPrompt
)

// String implements the Stringer interface for Kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindProgress:
		return "progress"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Event is the result of classifying one diagnostic line.
// Line always holds the original text unchanged.
type Event struct {
	Kind   Kind
	Line   string
	Sample ProgressSample // valid when Kind is KindProgress
	Prompt *PromptRequest // valid when Kind is KindPrompt
	Level  LogLevel       // severity for KindPlain lines
}

// ParseLine classifies one line of ffmpeg diagnostic output. Exactly one of
// the three kinds is produced; a line matching no recognized pattern is
// returned as KindPlain with its severity from Classify.
func ParseLine(line string) Event {
	if prompt, ok := DetectPrompt(line); ok {
		return Event{Kind: KindPrompt, Line: line, Prompt: prompt}
	}

	if sample, ok := ParseProgress(line); ok {
		return Event{Kind: KindProgress, Line: line, Sample: sample}
	}

	return Event{Kind: KindPlain, Line: line, Level: Classify(line)}
}
