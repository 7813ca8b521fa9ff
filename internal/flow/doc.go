// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package flow parses .flw batch scripts into ordered job sequences and
// executes them one at a time, applying a continue/stop-on-failure policy.
package flow
