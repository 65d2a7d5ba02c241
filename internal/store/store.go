// Package store handles the SQLite chapter catalogue.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/verte-zerg/pyqs/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for catalogue data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chapters (
			id INTEGER PRIMARY KEY,
			subject TEXT NOT NULL,
			class TEXT NOT NULL,
			unit TEXT NOT NULL,
			chapter TEXT NOT NULL,
			status TEXT NOT NULL,
			is_weak INTEGER NOT NULL,
			UNIQUE (subject, chapter)
		);`,
		`CREATE TABLE IF NOT EXISTS chapter_year_counts (
			chapter_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			questions INTEGER NOT NULL,
			PRIMARY KEY (chapter_id, year)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_subject ON chapters(subject);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceChapters swaps the stored catalogue for chapters in one transaction.
// Insertion order is kept as dataset order.
func (s *Store) ReplaceChapters(ctx context.Context, chapters []model.Chapter) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM chapter_year_counts`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM chapters`); err != nil {
		return err
	}

	chapterStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapters (subject, class, unit, chapter, status, is_weak)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := chapterStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	countStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapter_year_counts (chapter_id, year, questions) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := countStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for _, ch := range chapters {
		weak := 0
		if ch.IsWeakChapter {
			weak = 1
		}
		res, err := chapterStmt.ExecContext(ctx, string(ch.Subject), ch.Class, ch.Unit, ch.Chapter, ch.Status, weak)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for year, n := range ch.YearWiseQuestionCount {
			if _, err := countStmt.ExecContext(ctx, id, int(year), n); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListChapters returns the catalogue in insertion order.
func (s *Store) ListChapters(ctx context.Context) ([]model.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, class, unit, chapter, status, is_weak
		 FROM chapters
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var chapters []model.Chapter
	index := map[int64]int{}
	for rows.Next() {
		var id int64
		var subject string
		var weak int
		var ch model.Chapter
		if err := rows.Scan(&id, &subject, &ch.Class, &ch.Unit, &ch.Chapter, &ch.Status, &weak); err != nil {
			return nil, err
		}
		ch.Subject = model.Subject(subject)
		ch.IsWeakChapter = weak != 0
		ch.YearWiseQuestionCount = map[model.Year]int{}
		index[id] = len(chapters)
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadYearCounts(ctx, chapters, index); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (s *Store) loadYearCounts(ctx context.Context, chapters []model.Chapter, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT chapter_id, year, questions FROM chapter_year_counts`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var id int64
		var year, n int
		if err := rows.Scan(&id, &year, &n); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		chapters[i].YearWiseQuestionCount[model.Year(year)] = n
	}
	return rows.Err()
}

// CountChapters returns the number of stored chapters.
func (s *Store) CountChapters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chapters`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
