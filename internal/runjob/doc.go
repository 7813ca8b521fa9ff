// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runjob supervises a single ffmpeg child process at a time.
// A Supervisor spawns the process described by a JobSpec, streams its
// diagnostic output through the ffmpeg line classifier, surfaces interactive
// confirmation prompts to the caller, relays the caller's response to the
// child's stdin, and resolves the run to exactly one terminal state.
// The polling loop is the only place execution suspends.
package runjob
