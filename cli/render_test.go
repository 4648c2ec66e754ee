package cli

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := renderTable([]string{"ID", "NAME"}, nil)
		if !strings.Contains(out, "(none)") {
			t.Fatalf("expected placeholder, got %q", out)
		}
	})

	t.Run("columns are aligned", func(t *testing.T) {
		out := renderTable([]string{"ID", "NAME"}, [][]string{
			{"PH-1", "Central"},
			{"PH-LONG-ID", "North"},
		})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header, rule and two rows, got %d lines:\n%s", len(lines), out)
		}
		if strings.Index(lines[2], "Central") != strings.Index(lines[3], "North") {
			t.Fatalf("rows not aligned:\n%s", out)
		}
	})
}
