// Package dataset loads and validates chapter catalogues.
package dataset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pyqs/internal/model"
)

//go:embed data/chapters.json
var defaultChapters []byte

// ErrInvalidRecord marks a record that failed validation.
var ErrInvalidRecord = errors.New("invalid chapter record")

// Record is the on-disk shape of a chapter.
type Record struct {
	Subject               string         `json:"subject" yaml:"subject" validate:"required,oneof=Physics Chemistry Mathematics"`
	Class                 string         `json:"class" yaml:"class" validate:"required"`
	Unit                  string         `json:"unit" yaml:"unit" validate:"required"`
	Chapter               string         `json:"chapter" yaml:"chapter" validate:"required"`
	Status                string         `json:"status" yaml:"status" validate:"required,oneof='Not Started' 'In Progress' Completed"`
	IsWeakChapter         bool           `json:"isWeakChapter" yaml:"isWeakChapter"`
	YearWiseQuestionCount map[string]int `json:"yearWiseQuestionCount" yaml:"yearWiseQuestionCount" validate:"dive,gte=0"`
}

// Default returns the catalogue embedded at build time.
func Default() ([]model.Chapter, error) {
	return DecodeJSON(defaultChapters)
}

// LoadFile reads a JSON or YAML catalogue, chosen by file extension.
func LoadFile(path string) ([]model.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// DecodeJSON parses a JSON array of records.
func DecodeJSON(data []byte) ([]model.Chapter, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return Convert(records)
}

// DecodeYAML parses a YAML sequence of records.
func DecodeYAML(data []byte) ([]model.Chapter, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return Convert(records)
}

// Convert validates records and turns them into typed chapters, keeping order.
func Convert(records []Record) ([]model.Chapter, error) {
	v := newValidator()
	seen := map[string]int{}
	chapters := make([]model.Chapter, 0, len(records))
	for i, rec := range records {
		if err := v.check(rec); err != nil {
			return nil, fmt.Errorf("%w at index %d (%s): %v", ErrInvalidRecord, i, rec.Chapter, err)
		}
		key := rec.Subject + "\x00" + rec.Chapter
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w at index %d: duplicate chapter %q in %s (first at index %d)", ErrInvalidRecord, i, rec.Chapter, rec.Subject, prev)
		}
		seen[key] = i
		counts, err := parseYearCounts(rec.YearWiseQuestionCount)
		if err != nil {
			return nil, fmt.Errorf("%w at index %d (%s): %v", ErrInvalidRecord, i, rec.Chapter, err)
		}
		chapters = append(chapters, model.Chapter{
			Subject:               model.Subject(rec.Subject),
			Class:                 rec.Class,
			Unit:                  rec.Unit,
			Chapter:               rec.Chapter,
			Status:                rec.Status,
			IsWeakChapter:         rec.IsWeakChapter,
			YearWiseQuestionCount: counts,
		})
	}
	return chapters, nil
}

// Records converts chapters back into their on-disk shape.
func Records(chapters []model.Chapter) []Record {
	out := make([]Record, 0, len(chapters))
	for _, ch := range chapters {
		counts := make(map[string]int, len(ch.YearWiseQuestionCount))
		for year, n := range ch.YearWiseQuestionCount {
			counts[strconv.Itoa(int(year))] = n
		}
		out = append(out, Record{
			Subject:               string(ch.Subject),
			Class:                 ch.Class,
			Unit:                  ch.Unit,
			Chapter:               ch.Chapter,
			Status:                ch.Status,
			IsWeakChapter:         ch.IsWeakChapter,
			YearWiseQuestionCount: counts,
		})
	}
	return out
}

func parseYearCounts(raw map[string]int) (map[model.Year]int, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	counts := make(map[model.Year]int, len(raw))
	for _, k := range keys {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("year %q is not a number", k)
		}
		year := model.Year(n)
		if year < model.FirstYear || year > model.RecentYear {
			return nil, fmt.Errorf("year %d outside %d-%d", n, model.FirstYear, model.RecentYear)
		}
		if _, dup := counts[year]; dup {
			return nil, fmt.Errorf("year %d listed twice", n)
		}
		counts[year] = raw[k]
	}
	return counts, nil
}

// Encode writes chapters in the given format ("json" or "yaml").
func Encode(w io.Writer, chapters []model.Chapter, format string) error {
	records := Records(chapters)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}
