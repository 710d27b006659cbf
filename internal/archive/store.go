// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists parsed exam sittings in a SQLite database so
// statistics can accumulate across runs. Re-ingesting a source replaces its
// previous rows; the archive always reflects the latest parse of each input.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/n0call/examstats/pkg/types"
)

const dbFile = "examstats.db"

// Store manages the sitting archive database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at archiveDir/examstats.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.ArchiveDir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			path TEXT PRIMARY KEY,
			candidate_name TEXT,
			pin TEXT,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS exams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL REFERENCES sources(path),
			exam_index INTEGER NOT NULL,
			test_number TEXT,
			element INTEGER,
			outcome TEXT,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exams_source ON exams(source_path)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			exam_id INTEGER NOT NULL REFERENCES exams(id),
			number INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			selected TEXT NOT NULL,
			correct TEXT NOT NULL,
			is_correct INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_exam ON questions(exam_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_qid ON questions(question_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an archive ingest run.
type IngestSummary struct {
	Stored  int
	Updated int
	Failed  int
}

// Total returns the number of sources processed.
func (s IngestSummary) Total() int {
	return s.Stored + s.Updated + s.Failed
}

// IngestAll archives every source, printing per-source status to w.
func (s *Store) IngestAll(ctx context.Context, sources []*types.Source, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		updated, err := s.Ingest(ctx, src)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", src.Path, err)
			summary.Failed++
			continue
		}
		exams := src.ExamList()
		if updated {
			fmt.Fprintf(w, "updated  %s (%d exam(s), %d question(s))\n", src.Path, len(exams), src.Summary.Total)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "archived %s (%d exam(s), %d question(s))\n", src.Path, len(exams), src.Summary.Total)
			summary.Stored++
		}
	}

	fmt.Fprintf(w, "\narchived: %d, updated: %d, failed: %d\n",
		summary.Stored, summary.Updated, summary.Failed)
	return summary, nil
}

// Ingest archives one parsed source transactionally. It reports whether a
// previous ingest of the same path was replaced.
func (s *Store) Ingest(ctx context.Context, src *types.Source) (updated bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT path FROM sources WHERE path = ?`, src.Path).Scan(&existing)
	switch {
	case err == nil:
		updated = true
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM questions WHERE exam_id IN (SELECT id FROM exams WHERE source_path = ?)`,
			src.Path); err != nil {
			return false, fmt.Errorf("deleting old questions: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM exams WHERE source_path = ?`, src.Path); err != nil {
			return false, fmt.Errorf("deleting old exams: %w", err)
		}
	case err == sql.ErrNoRows:
		// first ingest of this source
	default:
		return false, fmt.Errorf("checking existing source: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sources (path, candidate_name, pin, ingested_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			candidate_name=excluded.candidate_name, pin=excluded.pin,
			ingested_at=excluded.ingested_at`,
		src.Path, src.Metadata.CandidateName, src.Metadata.PIN, now); err != nil {
		return false, fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (exam_id, number, question_id, selected, correct, is_correct)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing question insert: %w", err)
	}
	defer stmt.Close()

	for i, exam := range src.ExamList() {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO exams (source_path, exam_index, test_number, element, outcome, total, correct)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			src.Path, i+1, exam.Metadata.TestNumber, exam.Metadata.Element,
			exam.Metadata.Outcome, exam.Summary.Total, exam.Summary.Correct)
		if err != nil {
			return false, fmt.Errorf("inserting exam %d: %w", i+1, err)
		}
		examID, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading exam id: %w", err)
		}

		for _, q := range exam.Questions {
			if _, err := stmt.ExecContext(ctx,
				examID, q.Number, q.QuestionID, q.Selected, q.Correct, q.IsCorrect); err != nil {
				return false, fmt.Errorf("inserting question %s: %w", q.QuestionID, err)
			}
		}
	}

	return updated, tx.Commit()
}

// Questions returns every archived question in ingest order, the order the
// stats aggregator treats as first-encounter order.
func (s *Store) Questions(ctx context.Context) ([]types.QuestionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, question_id, selected, correct, is_correct
		 FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var questions []types.QuestionResult
	for rows.Next() {
		var q types.QuestionResult
		if err := rows.Scan(&q.Number, &q.QuestionID, &q.Selected, &q.Correct, &q.IsCorrect); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Rows returns every archived question as a flattened row with its source
// and exam context, in ingest order.
func (s *Store) Rows(ctx context.Context) ([]types.FlatRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.source_path, e.exam_index, e.test_number, e.element,
			q.number, q.question_id, q.selected, q.correct, q.is_correct
		 FROM questions q JOIN exams e ON q.exam_id = e.id
		 ORDER BY q.id`)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []types.FlatRow
	for rows.Next() {
		var r types.FlatRow
		if err := rows.Scan(&r.Source, &r.ExamIndex, &r.TestNumber, &r.Element,
			&r.Number, &r.QuestionID, &r.Selected, &r.Correct, &r.IsCorrect); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Counts holds archive-wide totals.
type Counts struct {
	Sources   int `json:"sources" yaml:"sources"`
	Exams     int `json:"exams" yaml:"exams"`
	Questions int `json:"questions" yaml:"questions"`
	Correct   int `json:"correct" yaml:"correct"`
}

// Count reports how much the archive currently holds.
func (s *Store) Count(ctx context.Context) (Counts, error) {
	var c Counts
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM sources),
			(SELECT count(*) FROM exams),
			(SELECT count(*) FROM questions),
			(SELECT count(*) FROM questions WHERE is_correct = 1)`)
	if err := row.Scan(&c.Sources, &c.Exams, &c.Questions, &c.Correct); err != nil {
		return Counts{}, fmt.Errorf("counting archive contents: %w", err)
	}
	return c, nil
}
