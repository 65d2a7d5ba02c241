// Package report renders the catalogue as plain text.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/model"
)

// EmptyMessage is shown when no chapter survives the filters.
const EmptyMessage = "No chapters found matching your filters."

const (
	barRune        = "█"
	minBarWidth    = 10
	maxBarWidth    = 40
	chapterColumn  = 0
	minChapterCell = 12
)

// TrendArrow maps a trend to its arrow glyph. Neutral is blank.
func TrendArrow(t model.Trend) string {
	switch t {
	case model.TrendUp:
		return "↑"
	case model.TrendDown:
		return "↓"
	default:
		return ""
	}
}

// SummaryLine formats the "2025 - 2009 | N Chapters | M Qs" header line.
func SummaryLine(s catalog.Summary) string {
	years := "No questions"
	if s.LastYear != 0 {
		years = fmt.Sprintf("%d - %d", s.LastYear, s.FirstYear)
	}
	return fmt.Sprintf("%s | %d Chapters | %d Qs", years, s.Chapters, s.TotalQuestions)
}

// ShowingLine formats the result count line.
func ShowingLine(n int) string {
	return fmt.Sprintf("Showing all chapters (%d)", n)
}

// CompactStats formats "2025: 5Qs ↑ | 2024: 3Qs" for narrow rows.
func CompactStats(st model.ChapterStats) string {
	recent := fmt.Sprintf("%d: %dQs", model.RecentYear, st.RecentYearCount)
	if arrow := TrendArrow(st.Trend); arrow != "" {
		recent += " " + arrow
	}
	return fmt.Sprintf("%s | %d: %dQs", recent, model.PreviousYear, st.PreviousYearCount)
}

// RenderHeader prints the subject title and dataset summary.
func RenderHeader(w io.Writer, subject model.Subject, summary catalog.Summary) error {
	lines := []string{
		fmt.Sprintf("%s PYQs", subject),
		fmt.Sprintf("Chapter-wise Collection of %s PYQs", subject),
		SummaryLine(summary),
		"",
	}
	return writeLines(w, lines)
}

// RenderChapters prints the result rows, switching to the compact layout
// when width is narrow.
func RenderChapters(w io.Writer, rows []catalog.Row, width int) error {
	if _, err := fmt.Fprintln(w, ShowingLine(len(rows))); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}
	if IsNarrow(width) {
		return writeLines(w, narrowLines(rows, width))
	}
	return writeLines(w, wideLines(rows, width))
}

func wideLines(rows []catalog.Row, width int) []string {
	headers := []string{"Chapter", "Class", "Unit", "Status", "Weak",
		strconv.Itoa(int(model.RecentYear)), "", strconv.Itoa(int(model.PreviousYear)), "Total"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		weak := ""
		if r.Chapter.IsWeakChapter {
			weak = "yes"
		}
		tableRows = append(tableRows, []string{
			r.Chapter.Chapter,
			r.Chapter.Class,
			r.Chapter.Unit,
			r.Chapter.Status,
			weak,
			strconv.Itoa(r.Stats.RecentYearCount),
			TrendArrow(r.Stats.Trend),
			strconv.Itoa(r.Stats.PreviousYearCount),
			fmt.Sprintf("%d Qs", r.Stats.TotalQuestions),
		})
	}
	shrinkColumn(headers, tableRows, chapterColumn, width)
	rightAlign := map[int]bool{5: true, 7: true, 8: true}
	return formatTable(headers, tableRows, rightAlign)
}

// shrinkColumn truncates one column so the table fits width, keeping a floor.
func shrinkColumn(headers []string, rows [][]string, col, width int) {
	if width <= 0 {
		return
	}
	lines := formatTable(headers, rows, nil)
	over := 0
	for _, line := range lines {
		if d := displayWidth(line) - width; d > over {
			over = d
		}
	}
	if over <= 0 {
		return
	}
	colWidth := displayWidth(headers[col])
	for _, row := range rows {
		if w := displayWidth(row[col]); w > colWidth {
			colWidth = w
		}
	}
	target := colWidth - over
	if target < minChapterCell {
		target = minChapterCell
	}
	for _, row := range rows {
		row[col] = Truncate(row[col], target)
	}
}

func narrowLines(rows []catalog.Row, width int) []string {
	lines := make([]string, 0, len(rows)*2)
	for _, r := range rows {
		total := fmt.Sprintf("%d Qs", r.Stats.TotalQuestions)
		name := r.Chapter.Chapter
		if r.Chapter.IsWeakChapter {
			name = "! " + name
		}
		room := width - displayWidth(total) - 1
		if room < minChapterCell {
			room = minChapterCell
		}
		name = Truncate(name, room)
		gap := width - displayWidth(name) - displayWidth(total)
		if gap < 1 {
			gap = 1
		}
		lines = append(lines, name+strings.Repeat(" ", gap)+total)
		lines = append(lines, "  "+CompactStats(r.Stats))
	}
	return lines
}

// RenderOptions prints the filter values available for a subject.
func RenderOptions(w io.Writer, subject model.Subject, opts catalog.Options) error {
	lines := []string{fmt.Sprintf("%s filters", subject)}
	sections := []struct {
		label  string
		values []string
	}{
		{"Class", opts.Classes},
		{"Units", opts.Units},
		{"Status", opts.Statuses},
	}
	for _, s := range sections {
		lines = append(lines, "", fmt.Sprintf("%s (%d)", s.label, len(s.values)))
		for _, v := range s.values {
			lines = append(lines, "  "+v)
		}
	}
	return writeLines(w, lines)
}

// RenderChapter prints one chapter's details and its year-wise bar chart.
func RenderChapter(w io.Writer, ch model.Chapter, width int) error {
	st := catalog.ComputeStats(ch)
	weak := "no"
	if ch.IsWeakChapter {
		weak = "yes"
	}
	trend := string(st.Trend)
	if arrow := TrendArrow(st.Trend); arrow != "" {
		trend = arrow + " " + trend
	}
	lines := []string{
		ch.Chapter,
		fmt.Sprintf("%s | %s | %s", ch.Subject, ch.Class, ch.Unit),
		"",
		fmt.Sprintf("Status: %s", ch.Status),
		fmt.Sprintf("Weak chapter: %s", weak),
		fmt.Sprintf("Total: %d Qs", st.TotalQuestions),
		fmt.Sprintf("%d: %d Qs | %d: %d Qs | Trend: %s",
			model.RecentYear, st.RecentYearCount, model.PreviousYear, st.PreviousYearCount, trend),
		"",
	}
	lines = append(lines, YearBars(ch, width)...)
	return writeLines(w, lines)
}

// YearBars renders one horizontal bar per known year, newest first,
// scaled to the largest count.
func YearBars(ch model.Chapter, width int) []string {
	years := catalog.YearRange()
	maxCount := 0
	for _, y := range years {
		if n := ch.YearWiseQuestionCount[y]; n > maxCount {
			maxCount = n
		}
	}
	countWidth := len(strconv.Itoa(maxCount))
	// "2025 │ " prefix plus " N" suffix.
	barWidth := width - 7 - countWidth - 1
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	lines := make([]string, 0, len(years))
	for _, y := range years {
		n := ch.YearWiseQuestionCount[y]
		bar := barLength(n, maxCount, barWidth)
		lines = append(lines, fmt.Sprintf("%d │ %s%s %*d",
			y, strings.Repeat(barRune, bar), strings.Repeat(" ", barWidth-bar), countWidth, n))
	}
	return lines
}

func barLength(n, maxCount, width int) int {
	if n <= 0 || maxCount <= 0 {
		return 0
	}
	l := int(math.Round(float64(n) / float64(maxCount) * float64(width)))
	if l < 1 {
		l = 1
	}
	if l > width {
		l = width
	}
	return l
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
