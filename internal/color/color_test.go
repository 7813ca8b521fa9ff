// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv(NoColor, "1")
	assert.False(t, isColorCapable(), "expected NO_COLOR to disable color output")

	t.Setenv(ForceColor, "1")
	assert.False(t, isColorCapable(), "expected NO_COLOR to win over FORCE_COLOR")

	t.Setenv(NoColor, "")
	assert.True(t, isColorCapable(), "expected FORCE_COLOR to enable color output")
}

func TestColorize(t *testing.T) {
	orig := enabled
	t.Cleanup(func() { enabled = orig })

	enabled = false
	assert.Equal(t, "ok", Colorize("ok", FgGreen), "expected passthrough when disabled")

	enabled = true
	assert.Equal(t, "\033[1;32mok\033[0m", Colorize("ok", Bold, FgGreen))
	assert.Equal(t, "ok", Colorize("ok"), "expected passthrough with no codes")
}
