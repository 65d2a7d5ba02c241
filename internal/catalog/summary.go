package catalog

import "github.com/verte-zerg/pyqs/internal/model"

// Summary describes the dataset for the header line.
type Summary struct {
	FirstYear      model.Year
	LastYear       model.Year
	Chapters       int
	TotalQuestions int
}

// Summarize aggregates year range and question totals. Years with a zero
// count do not widen the range.
func Summarize(chapters []model.Chapter) Summary {
	s := Summary{Chapters: len(chapters)}
	for _, ch := range chapters {
		for year, n := range ch.YearWiseQuestionCount {
			s.TotalQuestions += n
			if n == 0 {
				continue
			}
			if s.FirstYear == 0 || year < s.FirstYear {
				s.FirstYear = year
			}
			if year > s.LastYear {
				s.LastYear = year
			}
		}
	}
	return s
}

// YearRange returns the known years, newest first.
func YearRange() []model.Year {
	years := make([]model.Year, 0, int(model.RecentYear-model.FirstYear)+1)
	for y := model.RecentYear; y >= model.FirstYear; y-- {
		years = append(years, y)
	}
	return years
}
