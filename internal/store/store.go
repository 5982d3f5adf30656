// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keytutor/internal/model"
	"github.com/verte-zerg/keytutor/internal/progress"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store persists the progress document and the session log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// schema[i] upgrades user_version i to i+1.
var schema = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			layout TEXT NOT NULL,
			mode TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			wordlist_path TEXT NOT NULL,
			correct_nonspace INTEGER NOT NULL,
			incorrect_nonspace INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_char_stats (
			session_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_char_stats_char ON session_char_stats(char);`,
	},
	{
		`ALTER TABLE sessions ADD COLUMN wpm INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE sessions ADD COLUMN accuracy REAL NOT NULL DEFAULT 0;`,
		`ALTER TABLE sessions ADD COLUMN xp INTEGER NOT NULL DEFAULT 0;`,
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			doc TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	},
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
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

// SchemaVersion returns the applied schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (s *Store) migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > len(schema) {
		return fmt.Errorf("database schema %d is newer than supported %d", current, len(schema))
	}
	for v := current; v < len(schema); v++ {
		if err := s.applyStep(ctx, v+1, schema[v]); err != nil {
			return fmt.Errorf("failed to migrate to schema %d: %w", v+1, err)
		}
	}
	return nil
}

func (s *Store) applyStep(ctx context.Context, version int, stmts []string) (err error) {
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
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
		return err
	}
	return tx.Commit()
}

// Load implements progress.Repository.
func (s *Store) Load(ctx context.Context) (progress.Snapshot, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM progress WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.NewSnapshot(), nil
	}
	if err != nil {
		return progress.Snapshot{}, fmt.Errorf("failed to read progress: %w", err)
	}
	return progress.Decode([]byte(doc))
}

// Save implements progress.Repository.
func (s *Store) Save(ctx context.Context, snap progress.Snapshot) error {
	doc, err := progress.Encode(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO progress (id, doc, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		string(doc), s.now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

// InsertSession stores a completed session and its per-character stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uuid, started_at, ended_at, layout, mode, lesson_id, wordlist_path, correct_nonspace, incorrect_nonspace, duration_ms, wpm, accuracy, xp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.SessionUUID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Layout,
		string(stats.Mode),
		stats.LessonID,
		stats.WordListPath,
		stats.CorrectNonSpace,
		stats.IncorrectNonSpace,
		stats.DurationMs,
		stats.WPM,
		stats.Accuracy,
		stats.XP,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_char_stats (session_id, char, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Layout != "" {
		clauses = append(clauses, "layout = ?")
		args = append(args, cfg.Layout)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(cfg.Mode))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, correct_nonspace, incorrect_nonspace, duration_ms, xp
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt, mode string
		if err := rows.Scan(&agg.SessionID, &endedAt, &mode, &agg.Correct, &agg.Incorrect, &agg.DurationMs, &agg.XP); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Mode = model.Mode(mode)
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCharAggregatesForSessions aggregates per-character stats across sessions.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_char_stats
		WHERE session_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCharStatsForSessions returns per-session stats for selected characters.
func (s *Store) ListCharStatsForSessions(ctx context.Context, sessionIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	if len(sessionIDs) == 0 || len(chars) == 0 {
		return map[int64]map[string]model.CharAggregate{}, nil
	}
	idPlaceholders := make([]string, len(sessionIDs))
	args := make([]any, 0, len(sessionIDs)+len(chars))
	for i, id := range sessionIDs {
		idPlaceholders[i] = "?"
		args = append(args, id)
	}
	charPlaceholders := make([]string, len(chars))
	for i, ch := range chars {
		charPlaceholders[i] = "?"
		args = append(args, ch)
	}

	query := fmt.Sprintf(`SELECT session_id, char, correct, incorrect, latency_sum_ms, latency_count
		FROM session_char_stats
		WHERE session_id IN (%s) AND char IN (%s)`, strings.Join(idPlaceholders, ","), strings.Join(charPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]model.CharAggregate{}
	for rows.Next() {
		var sessionID int64
		var agg model.CharAggregate
		if err := rows.Scan(&sessionID, &agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.CharAggregate{}
		}
		result[sessionID][agg.Char] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
