// ABOUTME: Tests for the version command
// ABOUTME: Verifies version info propagation and output format
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd_Output(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-01-01")
	defer SetVersion("dev", "none", "unknown")

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)

	out := buf.String()
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("output missing version: %q", out)
	}
	if !strings.Contains(out, "abc1234") {
		t.Errorf("output missing commit: %q", out)
	}
	if !strings.Contains(out, "2026-01-01") {
		t.Errorf("output missing build date: %q", out)
	}
}
