// Package store handles SQLite persistence of preferences and fetched results.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Preference keys used by the client.
const (
	PrefReport     = "report"
	PrefFight      = "fight"
	PrefPlayer     = "player"
	PrefLang       = "lang"
	PrefAttributes = "attributes"
	PrefStatus     = "current_status"
)

// historyLimit bounds the analyses kept for offline re-render.
const historyLimit = 50

// Store wraps SQLite access for preferences and analysis history.
type Store struct {
	db *sql.DB
}

// AnalysisRecord is one cached analysis action with its raw JSON payloads.
type AnalysisRecord struct {
	ID          int64
	ReportID    string
	FightID     int
	PlayerID    int
	FetchedAt   time.Time
	RequestJSON string
	ResultJSON  string
	StackJSON   string
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
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			report_id TEXT NOT NULL,
			fight_id INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			fetched_at TEXT NOT NULL,
			request_json TEXT NOT NULL,
			result_json TEXT NOT NULL,
			stack_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_fetched_at ON analyses(fetched_at);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_target ON analyses(report_id, fight_id, player_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SetPreference stores or replaces a preference value.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// GetPreference reads a preference value. The second return reports presence.
func (s *Store) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Preferences returns all stored preferences.
func (s *Store) Preferences(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	prefs := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		prefs[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveAnalysis stores a fetched analysis and prunes history beyond the
// retention limit.
func (s *Store) SaveAnalysis(ctx context.Context, rec AnalysisRecord) (int64, error) {
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
		`INSERT INTO analyses (report_id, fight_id, player_id, fetched_at, request_json, result_json, stack_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ReportID,
		rec.FightID,
		rec.PlayerID,
		rec.FetchedAt.Format(time.RFC3339Nano),
		rec.RequestJSON,
		rec.ResultJSON,
		rec.StackJSON,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM analyses WHERE id NOT IN (
			SELECT id FROM analyses ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, historyLimit); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAnalyses returns history entries newest first, without payloads.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, fight_id, player_id, fetched_at
		 FROM analyses
		 ORDER BY fetched_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// LatestAnalysis returns the newest cached analysis for a target, with
// payloads. The second return reports presence.
func (s *Store) LatestAnalysis(ctx context.Context, reportID string, fightID, playerID int) (AnalysisRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, report_id, fight_id, player_id, fetched_at, request_json, result_json, stack_json
		 FROM analyses
		 WHERE report_id = ? AND fight_id = ? AND player_id = ?
		 ORDER BY fetched_at DESC, id DESC
		 LIMIT 1`, reportID, fightID, playerID)
	rec, err := scanRecord(row, true)
	if err == sql.ErrNoRows {
		return AnalysisRecord{}, false, nil
	}
	if err != nil {
		return AnalysisRecord{}, false, err
	}
	return rec, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, withPayload bool) (AnalysisRecord, error) {
	var rec AnalysisRecord
	var fetchedAt string
	var err error
	if withPayload {
		err = row.Scan(&rec.ID, &rec.ReportID, &rec.FightID, &rec.PlayerID, &fetchedAt,
			&rec.RequestJSON, &rec.ResultJSON, &rec.StackJSON)
	} else {
		err = row.Scan(&rec.ID, &rec.ReportID, &rec.FightID, &rec.PlayerID, &fetchedAt)
	}
	if err != nil {
		return AnalysisRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return AnalysisRecord{}, err
	}
	rec.FetchedAt = parsed
	return rec, nil
}
