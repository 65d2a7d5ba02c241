// Package model defines shared data structures.
package model

import "strings"

// Subject names one of the catalogue's subjects.
type Subject string

const (
	Physics     Subject = "Physics"
	Chemistry   Subject = "Chemistry"
	Mathematics Subject = "Mathematics"
)

// Subjects lists subjects in display order. The first one is active on start.
var Subjects = []Subject{Physics, Chemistry, Mathematics}

// ShortLabel returns the abbreviated tab label used by narrow layouts.
func (s Subject) ShortLabel() string {
	switch s {
	case Physics:
		return "Phy"
	case Chemistry:
		return "Chem"
	case Mathematics:
		return "Math"
	default:
		return string(s)
	}
}

// ParseSubject matches a subject name case-insensitively, accepting short labels.
func ParseSubject(name string) (Subject, bool) {
	for _, s := range Subjects {
		if strings.EqualFold(name, string(s)) || strings.EqualFold(name, s.ShortLabel()) {
			return s, true
		}
	}
	return "", false
}

// Chapter statuses.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Year is a calendar year key of the year-wise question counts.
type Year int

// Known year range. RecentYear and PreviousYear drive the trend.
const (
	FirstYear    Year = 2009
	PreviousYear Year = 2024
	RecentYear   Year = 2025
)

// Chapter is one catalogue record. It is never mutated after load.
type Chapter struct {
	Subject               Subject
	Class                 string
	Unit                  string
	Chapter               string
	Status                string
	IsWeakChapter         bool
	YearWiseQuestionCount map[Year]int
}

// SortDirection orders chapters by name.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc and their long forms.
func ParseSortDirection(v string) (SortDirection, bool) {
	switch {
	case strings.EqualFold(v, "asc"), strings.EqualFold(v, "ascending"):
		return SortAsc, true
	case strings.EqualFold(v, "desc"), strings.EqualFold(v, "descending"):
		return SortDesc, true
	}
	return "", false
}

// Criteria holds the user-selected filters. Empty selections mean no restriction.
type Criteria struct {
	Subject        Subject
	Classes        []string
	Units          []string
	Statuses       []string
	WeakOnly       bool
	NotStartedOnly bool
	Sort           SortDirection
}

// Trend is the direction of question counts between the two most recent years.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// ChapterStats is derived per chapter on every query.
type ChapterStats struct {
	TotalQuestions    int
	RecentYearCount   int
	PreviousYearCount int
	Trend             Trend
}
