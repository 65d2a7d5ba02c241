// Package catalog filters, sorts and aggregates the chapter catalogue.
//
// Every function here is pure: inputs are never modified and identical
// inputs yield element-wise identical outputs.
package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/pyqs/internal/model"
)

// Catalog wraps the loaded dataset.
type Catalog struct {
	chapters []model.Chapter
	statuses []string
}

// Options lists the values available to each multi-select filter.
type Options struct {
	Classes  []string
	Units    []string
	Statuses []string
}

// Scope is the subject-scoped subsequence of the dataset.
type Scope struct {
	Subject  model.Subject
	Chapters []model.Chapter
	Options  Options
}

// Row pairs a chapter with its derived stats.
type Row struct {
	Chapter model.Chapter
	Stats   model.ChapterStats
}

// Result is the output of a single query.
type Result struct {
	Subject  model.Subject
	Chapters []model.Chapter
	Rows     []Row
	Options  Options
	Summary  Summary
}

// New builds a catalog over chapters in dataset order.
func New(chapters []model.Chapter) *Catalog {
	owned := make([]model.Chapter, len(chapters))
	copy(owned, chapters)
	return &Catalog{
		chapters: owned,
		statuses: distinct(owned, func(ch model.Chapter) string { return ch.Status }),
	}
}

// Chapters returns a copy of the full dataset.
func (c *Catalog) Chapters() []model.Chapter {
	out := make([]model.Chapter, len(c.chapters))
	copy(out, c.chapters)
	return out
}

// Len returns the number of chapters in the dataset.
func (c *Catalog) Len() int {
	return len(c.chapters)
}

// SubjectScope selects the chapters of one subject and the filter options
// derived from them. Status options always come from the whole dataset.
func (c *Catalog) SubjectScope(subject model.Subject) Scope {
	chapters := make([]model.Chapter, 0, len(c.chapters))
	for _, ch := range c.chapters {
		if ch.Subject == subject {
			chapters = append(chapters, ch)
		}
	}
	statuses := make([]string, len(c.statuses))
	copy(statuses, c.statuses)
	return Scope{
		Subject:  subject,
		Chapters: chapters,
		Options: Options{
			Classes:  distinct(chapters, func(ch model.Chapter) string { return ch.Class }),
			Units:    distinct(chapters, func(ch model.Chapter) string { return ch.Unit }),
			Statuses: statuses,
		},
	}
}

// Query runs scope, filters, sort and stats for the given criteria.
func (c *Catalog) Query(criteria model.Criteria) Result {
	scope := c.SubjectScope(criteria.Subject)
	chapters := SortChapters(ApplyFilters(scope.Chapters, criteria), criteria.Sort)
	rows := make([]Row, len(chapters))
	for i, ch := range chapters {
		rows[i] = Row{Chapter: ch, Stats: ComputeStats(ch)}
	}
	return Result{
		Subject:  criteria.Subject,
		Chapters: chapters,
		Rows:     rows,
		Options:  scope.Options,
		Summary:  Summarize(c.chapters),
	}
}

// Find looks a chapter up by its display key.
func (c *Catalog) Find(subject model.Subject, name string) (model.Chapter, bool) {
	for _, ch := range c.chapters {
		if ch.Subject == subject && ch.Chapter == name {
			return ch, true
		}
	}
	return model.Chapter{}, false
}

// ApplyFilters keeps chapters matching every category of criteria.
// Within a category any selected value matches; an empty selection matches all.
func ApplyFilters(chapters []model.Chapter, criteria model.Criteria) []model.Chapter {
	out := make([]model.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if matches(ch, criteria) {
			out = append(out, ch)
		}
	}
	return out
}

func matches(ch model.Chapter, criteria model.Criteria) bool {
	if !selected(criteria.Classes, ch.Class) {
		return false
	}
	if !selected(criteria.Units, ch.Unit) {
		return false
	}
	if !selected(criteria.Statuses, ch.Status) {
		return false
	}
	if criteria.WeakOnly && !ch.IsWeakChapter {
		return false
	}
	if criteria.NotStartedOnly && ch.Status != model.StatusNotStarted {
		return false
	}
	return true
}

func selected(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	return contains(set, value)
}

// SortChapters orders chapters by name using English collation.
// Equal names keep their input order in both directions.
func SortChapters(chapters []model.Chapter, dir model.SortDirection) []model.Chapter {
	out := make([]model.Chapter, len(chapters))
	copy(out, chapters)
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := col.CompareString(out[i].Chapter, out[j].Chapter)
		if dir == model.SortDesc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return out
}

// ComputeStats derives totals and the year-over-year trend. Absent years count as zero.
func ComputeStats(ch model.Chapter) model.ChapterStats {
	total := 0
	for _, n := range ch.YearWiseQuestionCount {
		total += n
	}
	recent := ch.YearWiseQuestionCount[model.RecentYear]
	previous := ch.YearWiseQuestionCount[model.PreviousYear]
	trend := model.TrendNeutral
	switch {
	case recent > previous:
		trend = model.TrendUp
	case recent < previous:
		trend = model.TrendDown
	}
	return model.ChapterStats{
		TotalQuestions:    total,
		RecentYearCount:   recent,
		PreviousYearCount: previous,
		Trend:             trend,
	}
}

func distinct(chapters []model.Chapter, field func(model.Chapter) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, ch := range chapters {
		v := field(ch)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
