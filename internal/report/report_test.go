package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/model"
)

func testRows() []catalog.Row {
	chapters := []model.Chapter{
		{
			Subject: model.Physics, Class: "Class 11", Unit: "Mechanics 1", Chapter: "Kinematics",
			Status: model.StatusCompleted, IsWeakChapter: true,
			YearWiseQuestionCount: map[model.Year]int{2025: 5, 2024: 3, 2023: 4},
		},
		{
			Subject: model.Physics, Class: "Class 12", Unit: "Optics", Chapter: "Ray Optics",
			Status: model.StatusNotStarted,
			YearWiseQuestionCount: map[model.Year]int{2025: 1, 2024: 4},
		},
	}
	rows := make([]catalog.Row, len(chapters))
	for i, ch := range chapters {
		rows[i] = catalog.Row{Chapter: ch, Stats: catalog.ComputeStats(ch)}
	}
	return rows
}

func TestRenderHeader(t *testing.T) {
	var buf bytes.Buffer
	summary := catalog.Summary{FirstYear: 2009, LastYear: 2025, Chapters: 86, TotalQuestions: 1500}
	if err := RenderHeader(&buf, model.Chemistry, summary); err != nil {
		t.Fatalf("render header: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Chemistry PYQs") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "2025 - 2009 | 86 Chapters | 1500 Qs") {
		t.Fatalf("missing summary line: %q", out)
	}
}

func TestSummaryLineWithoutQuestions(t *testing.T) {
	got := SummaryLine(catalog.Summary{Chapters: 2})
	if got != "No questions | 2 Chapters | 0 Qs" {
		t.Fatalf("unexpected summary line: %q", got)
	}
}

func TestRenderChaptersWide(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChapters(&buf, testRows(), 120); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Showing all chapters (2)" {
		t.Fatalf("unexpected count line: %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected count, header and 2 rows, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "Chapter") || !strings.Contains(lines[1], "2025") {
		t.Fatalf("unexpected header: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Kinematics") || !strings.Contains(lines[2], "↑") || !strings.HasSuffix(lines[2], "12 Qs") {
		t.Fatalf("unexpected first row: %q", lines[2])
	}
	if !strings.Contains(lines[3], "↓") {
		t.Fatalf("expected down trend in %q", lines[3])
	}
}

func TestRenderChaptersWideFitsWidth(t *testing.T) {
	rows := testRows()
	rows[0].Chapter.Chapter = strings.Repeat("Very Long Chapter Name ", 6)
	var buf bytes.Buffer
	if err := RenderChapters(&buf, rows, 100); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if displayWidth(line) > 100 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if rows[0].Chapter.Chapter != strings.Repeat("Very Long Chapter Name ", 6) {
		t.Fatalf("rendering must not modify rows")
	}
}

func TestRenderChaptersNarrow(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChapters(&buf, testRows(), 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2025: 5Qs ↑ | 2024: 3Qs") {
		t.Fatalf("missing compact stats: %q", out)
	}
	if !strings.Contains(out, "2025: 1Qs ↓ | 2024: 4Qs") {
		t.Fatalf("missing compact stats for second row: %q", out)
	}
	if strings.Contains(out, "Status") {
		t.Fatalf("narrow layout should not print the table header: %q", out)
	}
}

func TestRenderChaptersEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChapters(&buf, nil, 120); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Showing all chapters (0)\n" + EmptyMessage + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestRenderOptions(t *testing.T) {
	var buf bytes.Buffer
	opts := catalog.Options{
		Classes:  []string{"Class 11", "Class 12"},
		Units:    []string{"Optics"},
		Statuses: []string{model.StatusCompleted},
	}
	if err := RenderOptions(&buf, model.Physics, opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Class (2)", "  Class 12", "Units (1)", "Status (1)", "  Completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRenderChapterBars(t *testing.T) {
	var buf bytes.Buffer
	ch := testRows()[0].Chapter
	if err := RenderChapter(&buf, ch, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Total: 12 Qs") || !strings.Contains(out, "Trend: ↑ up") {
		t.Fatalf("unexpected stats: %q", out)
	}
	bars := YearBars(ch, 60)
	if len(bars) != len(catalog.YearRange()) {
		t.Fatalf("expected one bar per year, got %d", len(bars))
	}
	if !strings.HasPrefix(bars[0], "2025 │ ") {
		t.Fatalf("expected newest year first, got %q", bars[0])
	}
	if strings.Count(bars[0], barRune) <= strings.Count(bars[1], barRune) {
		t.Fatalf("2025 bar should be longer than 2024: %q vs %q", bars[0], bars[1])
	}
	if strings.Contains(bars[len(bars)-1], barRune) {
		t.Fatalf("zero count should have no bar: %q", bars[len(bars)-1])
	}
}
