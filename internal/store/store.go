// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/typetutor/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Session bundles a session row with its per-character, per-key and
// wrong-character rows.
type Session struct {
	Record model.SessionRecord
	Chars  []model.CharStats
	Keys   []model.KeyStats
	Wrong  []model.WrongChar
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			source TEXT NOT NULL,
			lang TEXT NOT NULL,
			target_len INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			mistakes INTEGER NOT NULL,
			backspaces INTEGER NOT NULL,
			cpm INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_char_stats (
			session_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		);`,
		`CREATE TABLE IF NOT EXISTS session_key_stats (
			session_id TEXT NOT NULL,
			key_code TEXT NOT NULL,
			presses INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			speed_sum_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, key_code)
		);`,
		`CREATE TABLE IF NOT EXISTS session_wrong_chars (
			session_id TEXT NOT NULL,
			char TEXT NOT NULL,
			error_count INTEGER NOT NULL,
			positions TEXT NOT NULL,
			PRIMARY KEY (session_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_char_stats_char ON session_char_stats(char);`,
		`CREATE INDEX IF NOT EXISTS idx_session_key_stats_key ON session_key_stats(key_code);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its detail rows in one
// transaction.
func (s *Store) InsertSession(ctx context.Context, sess Session) (err error) {
	rec := sess.Record
	if rec.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, mode, source, lang, target_len, started_at, ended_at, duration_ms, correct, mistakes, backspaces, cpm, wpm, accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Mode,
		rec.Source,
		rec.Lang,
		rec.TargetLength,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.DurationMs,
		rec.Correct,
		rec.Mistakes,
		rec.Backspaces,
		rec.CPM,
		rec.WPM,
		rec.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err = execEach(ctx, tx,
		`INSERT INTO session_char_stats (session_id, char, correct, incorrect, latency_sum_ms, latency_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		len(sess.Chars), func(i int) []any {
			cs := sess.Chars[i]
			return []any{rec.ID, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount}
		}); err != nil {
		return fmt.Errorf("failed to insert char stats: %w", err)
	}
	if err = execEach(ctx, tx,
		`INSERT INTO session_key_stats (session_id, key_code, presses, errors, speed_sum_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		len(sess.Keys), func(i int) []any {
			ks := sess.Keys[i]
			return []any{rec.ID, ks.KeyCode, ks.Presses, ks.Errors, ks.SpeedSumMs}
		}); err != nil {
		return fmt.Errorf("failed to insert key stats: %w", err)
	}
	if err = execEach(ctx, tx,
		`INSERT INTO session_wrong_chars (session_id, char, error_count, positions)
		 VALUES (?, ?, ?, ?)`,
		len(sess.Wrong), func(i int) []any {
			wc := sess.Wrong[i]
			return []any{rec.ID, wc.Char, wc.ErrorCount, encodePositions(wc.Positions)}
		}); err != nil {
		return fmt.Errorf("failed to insert wrong chars: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

func encodePositions(positions []int) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func decodePositions(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad position %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// recentSessions selects the newest window sessions, optionally in one language.
const recentSessions = `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)`

// GetWeakChars aggregates character stats over the most recent sessions.
func (s *Store) GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := recentSessions + `
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect,
		SUM(cs.latency_sum_ms) AS latency_sum_ms, SUM(cs.latency_count) AS latency_count
	FROM session_char_stats cs
	JOIN recent_sessions r ON r.id = cs.session_id
	GROUP BY cs.char
	ORDER BY cs.char`
	return queryCharAggregates(ctx, s.db, query, lang, lang, window)
}

// GetWeakKeys aggregates key stats over the most recent sessions.
func (s *Store) GetWeakKeys(ctx context.Context, window int, lang string) ([]model.KeyAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := recentSessions + `
	SELECT ks.key_code, SUM(ks.presses), SUM(ks.errors), SUM(ks.speed_sum_ms)
	FROM session_key_stats ks
	JOIN recent_sessions r ON r.id = ks.session_id
	GROUP BY ks.key_code
	ORDER BY ks.key_code`
	return queryKeyAggregates(ctx, s.db, query, lang, lang, window)
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, mode, ended_at, correct, mistakes, backspaces, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
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
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.Mode, &endedAt, &agg.Correct, &agg.Incorrect, &agg.Backspaces, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession loads one session row by id.
func (s *Store) GetSession(ctx context.Context, id string) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var startedAt, endedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mode, source, lang, target_len, started_at, ended_at, duration_ms, correct, mistakes, backspaces, cpm, wpm, accuracy
		 FROM sessions WHERE id = ?`, id).Scan(
		&rec.ID, &rec.Mode, &rec.Source, &rec.Lang, &rec.TargetLength, &startedAt, &endedAt,
		&rec.DurationMs, &rec.Correct, &rec.Mistakes, &rec.Backspaces, &rec.CPM, &rec.WPM, &rec.Accuracy)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionRecord{}, err
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.SessionRecord{}, err
	}
	return rec, nil
}

// ListCharAggregatesForSessions aggregates per-character stats across sessions.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []string) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_char_stats
		WHERE session_id IN (%s)
		GROUP BY char
		ORDER BY char`, in)
	return queryCharAggregates(ctx, s.db, query, args...)
}

// ListKeyAggregatesForSessions aggregates per-key stats across sessions.
func (s *Store) ListKeyAggregatesForSessions(ctx context.Context, sessionIDs []string) ([]model.KeyAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT key_code, SUM(presses), SUM(errors), SUM(speed_sum_ms)
		FROM session_key_stats
		WHERE session_id IN (%s)
		GROUP BY key_code
		ORDER BY key_code`, in)
	return queryKeyAggregates(ctx, s.db, query, args...)
}

// AllKeyAggregates aggregates per-key stats across every stored session.
func (s *Store) AllKeyAggregates(ctx context.Context) ([]model.KeyAggregate, error) {
	return queryKeyAggregates(ctx, s.db, `SELECT key_code, SUM(presses), SUM(errors), SUM(speed_sum_ms)
		FROM session_key_stats
		GROUP BY key_code
		ORDER BY key_code`)
}

// ListWrongCharsForSessions totals wrong characters across sessions, most
// frequent first. A non-positive limit returns every character.
func (s *Store) ListWrongCharsForSessions(ctx context.Context, sessionIDs []string, limit int) ([]model.WrongCharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT char, SUM(error_count) AS total, COUNT(DISTINCT session_id)
		FROM session_wrong_chars
		WHERE session_id IN (%s)
		GROUP BY char
		ORDER BY total DESC, char ASC`, in)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wrong chars: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WrongCharAggregate
	for rows.Next() {
		var agg model.WrongCharAggregate
		if err := rows.Scan(&agg.Char, &agg.ErrorCount, &agg.Sessions); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WrongCharsForSession returns the wrong-character rows of one session.
func (s *Store) WrongCharsForSession(ctx context.Context, sessionID string) ([]model.WrongChar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, error_count, positions FROM session_wrong_chars WHERE session_id = ? ORDER BY char`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wrong chars: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WrongChar
	for rows.Next() {
		var wc model.WrongChar
		var positions string
		if err := rows.Scan(&wc.Char, &wc.ErrorCount, &positions); err != nil {
			return nil, err
		}
		if wc.Positions, err = decodePositions(positions); err != nil {
			return nil, err
		}
		result = append(result, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func queryCharAggregates(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.CharAggregate, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query char stats: %w", err)
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

func queryKeyAggregates(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.KeyAggregate, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query key stats: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyAggregate
	for rows.Next() {
		var agg model.KeyAggregate
		if err := rows.Scan(&agg.KeyCode, &agg.Presses, &agg.Errors, &agg.SpeedSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
