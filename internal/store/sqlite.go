package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// Ensure SQLiteStore implements model.AnalysisStore.
var _ model.AnalysisStore = (*SQLiteStore)(nil)

// SQLiteStore keeps analyses in a SQLite database so they can be reviewed later.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// analyses table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS analyses (
		id          TEXT PRIMARY KEY,
		created_at  INTEGER NOT NULL,
		variant     TEXT NOT NULL,
		source      TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		raw         TEXT NOT NULL DEFAULT '',
		result      TEXT NOT NULL,
		skills      INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating analyses table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save records a. Saving the same ID twice replaces the earlier row.
func (s *SQLiteStore) Save(ctx context.Context, a *model.Analysis) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encoding result for %s: %w", a.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO analyses
			(id, created_at, variant, source, title, description, model, raw, result, skills)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CreatedAt.UnixMilli(), a.Variant, a.Source, a.Title, a.Description, a.Model, a.Raw, string(result), a.Result.Count(),
	)
	if err != nil {
		return fmt.Errorf("saving analysis %s: %w", a.ID, err)
	}
	return nil
}

// Get loads the analysis with the given ID, or model.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Analysis, error) {
	var (
		a         model.Analysis
		createdAt int64
		result    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, variant, source, title, description, model, raw, result
		 FROM analyses WHERE id = ?`, id,
	).Scan(&a.ID, &createdAt, &a.Variant, &a.Source, &a.Title, &a.Description, &a.Model, &a.Raw, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading analysis %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis %s: %w", id, err)
	}

	var r extract.Result
	if err := json.Unmarshal([]byte(result), &r); err != nil {
		return nil, fmt.Errorf("decoding result for %s: %w", id, err)
	}
	a.Result = r
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &a, nil
}

// List returns up to limit summaries, newest first. A non-positive limit means no limit.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.AnalysisSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, variant, source, title, skills
		 FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var out []model.AnalysisSummary
	for rows.Next() {
		var (
			sum       model.AnalysisSummary
			createdAt int64
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Variant, &sum.Source, &sum.Title, &sum.Skills); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return out, nil
}

// Delete removes the analysis with the given ID, or returns model.ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting analysis %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
