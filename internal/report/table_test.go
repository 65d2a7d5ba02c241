package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Chapter", "2025", "Total"}
	rows := [][]string{
		{"Kinematics", "5", "12 Qs"},
		{"Électrostatique", "10", "3 Qs"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Chapter          2025  Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Kinematics          5  12 Qs" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Électrostatique    10   3 Qs" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Kinematics", 20); got != "Kinematics" {
		t.Fatalf("short value should be kept, got %q", got)
	}
	got := Truncate("Electromagnetic Induction", 10)
	if displayWidth(got) > 10 {
		t.Fatalf("expected at most 10 cells, got %q", got)
	}
	if got == "" || []rune(got)[len([]rune(got))-1] != '…' {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if Truncate("abc", 0) != "" {
		t.Fatalf("zero width should yield empty string")
	}
}

func TestIsNarrow(t *testing.T) {
	if !IsNarrow(79) || IsNarrow(80) || IsNarrow(0) {
		t.Fatalf("unexpected narrow breakpoints")
	}
}
