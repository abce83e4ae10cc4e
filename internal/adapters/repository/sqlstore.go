package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/internal/domain/ranking"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS scores (
	team_id       TEXT PRIMARY KEY,
	team_name     TEXT NOT NULL,
	problem       REAL NOT NULL,
	solution      REAL NOT NULL,
	execution     REAL NOT NULL,
	total         REAL NOT NULL,
	estimated_loc INTEGER NOT NULL,
	commentary    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	previous_rank INTEGER,
	current_rank  INTEGER,
	seq           INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS commentary (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL,
	message TEXT NOT NULL,
	ts      TEXT NOT NULL
);
`

// SQLStore persists scores in SQLite. The seq column records first-insert
// order so that equal totals rank in stable insertion order, matching the
// file backend.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (and if needed creates) the database at path with
// WAL and busy-timeout pragmas applied.
func NewSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: mkdir: %w", ErrPersistence, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrPersistence, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: pragma: %w", ErrPersistence, err)
		}
	}

	if _, err := db.Exec(sqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: schema: %w", ErrPersistence, err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) readAll(ctx context.Context) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, team_name, problem, solution, execution, total,
		       estimated_loc, commentary, updated_at, previous_rank, current_rank
		FROM scores ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: select scores: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var out []model.ScoreRecord
	for rows.Next() {
		var r model.ScoreRecord
		var updatedAt string
		var prev, cur sql.NullInt64
		if err := rows.Scan(&r.TeamID, &r.TeamName, &r.Problem, &r.Solution, &r.Execution,
			&r.Total, &r.EstimatedLOC, &r.Commentary, &updatedAt, &prev, &cur); err != nil {
			return nil, fmt.Errorf("%w: scan score: %w", ErrPersistence, err)
		}
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		if prev.Valid {
			v := int(prev.Int64)
			r.PreviousRank = &v
		}
		if cur.Valid {
			v := int(cur.Int64)
			r.CurrentRank = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate scores: %w", ErrPersistence, err)
	}
	return out, nil
}

// ReadAll returns the ranked record set sorted by total descending.
func (s *SQLStore) ReadAll(ctx context.Context) ([]model.ScoreRecord, error) {
	records, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Assign(records), nil
}

// WriteAll upserts records by team id, carrying prior ranks and
// recomputing CurrentRank across the full stored set in one transaction.
func (s *SQLStore) WriteAll(ctx context.Context, records []model.ScoreRecord) error {
	stored, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	prior := ranking.Assign(append([]model.ScoreRecord(nil), stored...))
	ranking.CarryPrevious(prior, records)
	merged := ranking.Assign(mergeRecords(prior, records))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxSeq int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM scores`).Scan(&maxSeq); err != nil {
		return fmt.Errorf("%w: max seq: %w", ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scores (team_id, team_name, problem, solution, execution, total,
		                    estimated_loc, commentary, updated_at, previous_rank, current_rank, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id) DO UPDATE SET
			team_name     = excluded.team_name,
			problem       = excluded.problem,
			solution      = excluded.solution,
			execution     = excluded.execution,
			total         = excluded.total,
			estimated_loc = excluded.estimated_loc,
			commentary    = excluded.commentary,
			updated_at    = excluded.updated_at,
			previous_rank = excluded.previous_rank,
			current_rank  = excluded.current_rank`)
	if err != nil {
		return fmt.Errorf("%w: prepare upsert: %w", ErrPersistence, err)
	}
	defer stmt.Close()

	existing := make(map[string]bool, len(stored))
	for _, r := range stored {
		existing[r.TeamID] = true
	}

	for _, r := range merged {
		seq := maxSeq
		if !existing[r.TeamID] {
			maxSeq++
			seq = maxSeq
		}
		if _, err := stmt.ExecContext(ctx,
			r.TeamID, r.TeamName, r.Problem, r.Solution, r.Execution, r.Total,
			r.EstimatedLOC, r.Commentary, r.UpdatedAt.UTC().Format(time.RFC3339Nano),
			nullableRank(r.PreviousRank), nullableRank(r.CurrentRank), seq); err != nil {
			return fmt.Errorf("%w: upsert %s: %w", ErrPersistence, r.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersistence, err)
	}
	return nil
}

// UpsertOne is WriteAll for a single record.
func (s *SQLStore) UpsertOne(ctx context.Context, record model.ScoreRecord) error {
	return s.WriteAll(ctx, []model.ScoreRecord{record})
}

// AppendCommentary inserts a timestamped entry and trims the feed to the
// newest model.CommentaryLimit rows.
func (s *SQLStore) AppendCommentary(ctx context.Context, message string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO commentary (id, message, ts) VALUES (?, ?, ?)`,
		uuid.NewString(), message, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%w: insert commentary: %w", ErrPersistence, err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM commentary WHERE seq NOT IN (
			SELECT seq FROM commentary ORDER BY seq DESC LIMIT ?)`,
		model.CommentaryLimit); err != nil {
		return fmt.Errorf("%w: trim commentary: %w", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersistence, err)
	}
	return nil
}

// ReadCommentary returns up to limit entries, most recent first.
func (s *SQLStore) ReadCommentary(ctx context.Context, limit int) ([]model.CommentaryEvent, error) {
	if limit <= 0 || limit > model.CommentaryLimit {
		limit = model.CommentaryLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, ts FROM commentary ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: select commentary: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var out []model.CommentaryEvent
	for rows.Next() {
		var e model.CommentaryEvent
		var ts string
		if err := rows.Scan(&e.ID, &e.Message, &ts); err != nil {
			return nil, fmt.Errorf("%w: scan commentary: %w", ErrPersistence, err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate commentary: %w", ErrPersistence, err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullableRank(r *int) interface{} {
	if r == nil {
		return nil
	}
	return *r
}
