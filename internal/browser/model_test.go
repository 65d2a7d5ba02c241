package browser

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/model"
	"github.com/verte-zerg/pyqs/internal/report"
)

func testCatalog() *catalog.Catalog {
	ch := func(subject model.Subject, class, unit, name, status string, weak bool, counts map[model.Year]int) model.Chapter {
		return model.Chapter{
			Subject: subject, Class: class, Unit: unit, Chapter: name,
			Status: status, IsWeakChapter: weak, YearWiseQuestionCount: counts,
		}
	}
	return catalog.New([]model.Chapter{
		ch(model.Physics, "Class 11", "Mechanics 1", "Laws of Motion", model.StatusCompleted, false, map[model.Year]int{2025: 2, 2024: 2}),
		ch(model.Physics, "Class 12", "Optics", "Ray Optics", model.StatusNotStarted, true, map[model.Year]int{2025: 6, 2024: 3}),
		ch(model.Physics, "Class 11", "Mechanics 1", "Kinematics", model.StatusInProgress, false, map[model.Year]int{2025: 1, 2024: 4}),
		ch(model.Chemistry, "Class 11", "Physical Chemistry", "Atomic Structure", model.StatusNotStarted, false, map[model.Year]int{2023: 5}),
		ch(model.Mathematics, "Class 12", "Calculus", "Limits", model.StatusCompleted, true, map[model.Year]int{2025: 4}),
	})
}

func newTestModel(t *testing.T, width, height int) *Model {
	t.Helper()
	m := NewModel(testCatalog(), catalog.DefaultCriteria(), nil)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func chapterNames(m *Model) []string {
	rows := m.Result().Rows
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Chapter.Chapter
	}
	return out
}

func TestInitialStateShowsFirstSubject(t *testing.T) {
	m := newTestModel(t, 120, 40)
	if m.Criteria().Subject != model.Physics {
		t.Fatalf("expected Physics, got %s", m.Criteria().Subject)
	}
	got := chapterNames(m)
	want := []string{"Kinematics", "Laws of Motion", "Ray Optics"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected rows: %v", got)
	}
	view := m.View()
	for _, s := range []string{"Physics PYQs", "Chemistry PYQs", "Showing all chapters (3)", "5 Chapters"} {
		if !strings.Contains(view, s) {
			t.Fatalf("expected %q in view", s)
		}
	}
}

func TestSubjectNavigation(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "right")
	if m.Criteria().Subject != model.Chemistry {
		t.Fatalf("expected Chemistry, got %s", m.Criteria().Subject)
	}
	press(m, "left", "left")
	if m.Criteria().Subject != model.Mathematics {
		t.Fatalf("expected wrap to Mathematics, got %s", m.Criteria().Subject)
	}
	press(m, "1")
	if m.Criteria().Subject != model.Physics {
		t.Fatalf("expected jump to Physics, got %s", m.Criteria().Subject)
	}
	press(m, "l")
	if m.Criteria().Subject != model.Chemistry {
		t.Fatalf("expected l to move right, got %s", m.Criteria().Subject)
	}
}

func TestSubjectChangeClearsClassesAndUnits(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "c", "space", "enter")
	if len(m.Criteria().Classes) != 1 {
		t.Fatalf("expected one class selected, got %v", m.Criteria().Classes)
	}
	press(m, "s", "space", "esc")
	if len(m.Criteria().Statuses) != 1 {
		t.Fatalf("expected one status selected, got %v", m.Criteria().Statuses)
	}
	press(m, "3")
	if len(m.Criteria().Classes) != 0 || len(m.Criteria().Units) != 0 {
		t.Fatalf("expected classes and units cleared, got %+v", m.Criteria())
	}
	if len(m.Criteria().Statuses) != 1 {
		t.Fatalf("expected statuses kept across subjects, got %v", m.Criteria().Statuses)
	}
}

func TestClassPickerFiltersRows(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "c")
	if !strings.Contains(m.View(), "[ ] Class 12") {
		t.Fatalf("expected class options in picker view")
	}
	press(m, "down", "space")
	if got := m.Criteria().Classes; len(got) != 1 || got[0] != "Class 12" {
		t.Fatalf("expected Class 12 selected, got %v", got)
	}
	if !strings.Contains(m.View(), "[x] Class 12") {
		t.Fatalf("expected checked option in picker view")
	}
	press(m, "enter")
	if got := chapterNames(m); len(got) != 1 || got[0] != "Ray Optics" {
		t.Fatalf("expected only Ray Optics, got %v", got)
	}
	if !strings.Contains(m.View(), "Class (1)") {
		t.Fatalf("expected filter count in filter bar")
	}
	press(m, "c", "down", "space", "esc")
	if len(m.Criteria().Classes) != 0 {
		t.Fatalf("expected toggle off, got %v", m.Criteria().Classes)
	}
}

func TestTogglesAndSort(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "w")
	if got := chapterNames(m); len(got) != 1 || got[0] != "Ray Optics" {
		t.Fatalf("expected weak chapters only, got %v", got)
	}
	press(m, "w", "n")
	if got := chapterNames(m); len(got) != 1 || got[0] != "Ray Optics" {
		t.Fatalf("expected not-started chapters only, got %v", got)
	}
	press(m, "n", "o")
	got := chapterNames(m)
	want := []string{"Ray Optics", "Laws of Motion", "Kinematics"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected descending order, got %v", got)
	}
	if m.Criteria().Sort != model.SortDesc {
		t.Fatalf("expected desc sort")
	}
}

func TestClearFiltersKeepsSubjectAndSort(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "2", "o", "w", "n")
	press(m, "x")
	c := m.Criteria()
	if c.WeakOnly || c.NotStartedOnly {
		t.Fatalf("expected toggles cleared, got %+v", c)
	}
	if c.Subject != model.Chemistry || c.Sort != model.SortDesc {
		t.Fatalf("expected subject and sort kept, got %+v", c)
	}
}

func TestEmptyState(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "2", "w")
	if len(m.Result().Rows) != 0 {
		t.Fatalf("expected no rows")
	}
	view := m.View()
	if !strings.Contains(view, report.EmptyMessage) {
		t.Fatalf("expected empty message in view")
	}
	if !strings.Contains(view, "Showing all chapters (0)") {
		t.Fatalf("expected zero count in view")
	}
	press(m, "enter")
	if m.detailOpen {
		t.Fatalf("detail should not open without rows")
	}
}

func TestNarrowLayout(t *testing.T) {
	m := newTestModel(t, 60, 30)
	view := m.View()
	if strings.Contains(view, "Physics PYQs") {
		t.Fatalf("narrow layout should use short tab labels")
	}
	for _, s := range []string{"Phy", "Chem", "Math", "2025: 1Qs ↓ | 2024: 4Qs"} {
		if !strings.Contains(view, s) {
			t.Fatalf("expected %q in narrow view", s)
		}
	}
	for _, line := range strings.Split(view, "\n") {
		if w := len([]rune(stripANSI(line))); w > 60 {
			t.Fatalf("line wider than terminal (%d): %q", w, line)
		}
	}
}

func TestDetailModal(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "down", "enter")
	if !m.detailOpen {
		t.Fatalf("expected detail to open")
	}
	view := m.View()
	if !strings.Contains(view, "Laws of Motion") || !strings.Contains(view, "Total: 4 Qs") {
		t.Fatalf("expected chapter detail in view")
	}
	press(m, "esc")
	if m.detailOpen {
		t.Fatalf("expected detail to close")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, 120, 40)
	press(m, "?")
	if !m.showHelp {
		t.Fatalf("expected help shown")
	}
	if !strings.Contains(m.View(), "clear filters") {
		t.Fatalf("expected full help in view")
	}
	press(m, "w")
	if m.Criteria().WeakOnly {
		t.Fatalf("keys other than ? and esc should be ignored while help is open")
	}
	press(m, "esc")
	if m.showHelp {
		t.Fatalf("expected help hidden")
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newTestModel(t, 120, 40)
		cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", k)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
