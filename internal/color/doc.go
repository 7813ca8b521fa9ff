// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color applies ANSI escape codes to strings for terminal output.
// Coloring is disabled when NO_COLOR is set or when stdout is not a
// terminal, and can be forced on with FORCE_COLOR.
package color
