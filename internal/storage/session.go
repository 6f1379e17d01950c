/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	applog "pixview/internal/log"
	"pixview/internal/version"
	"pixview/internal/zoom"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	AppDirName      = "pixview"
	SessionFileName = "session.sqlite"

	// sessionSchemaVersion tracks the session database schema.
	// Bump this when you perform breaking schema changes and add migrations.
	sessionSchemaVersion = 2

	metaActiveMode = "active_mode"
)

// ViewRecord is the persisted view state of one work mode.
type ViewRecord struct {
	WorkMode  string
	State     zoom.Snapshot
	LastKey   string
	UpdatedAt time.Time
}

// Session persists per-work-mode view states so a restart returns every mode
// to the zoom and pan it was left at.
type Session struct {
	db   *sql.DB
	path string
}

// DefaultSessionPath returns $XDG_STATE_HOME/pixview/session.sqlite, creating the directory.
func DefaultSessionPath() (string, error) {
	p, err := xdg.StateFile(filepath.Join(AppDirName, SessionFileName))
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}
	return p, nil
}

// OpenSession opens or creates the session database at path, enables WAL and
// brings the schema up to date.
func OpenSession(path string) (*Session, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "session_open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("session path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create session dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSessionSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure session schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runSessionMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("session ready")
	return &Session{db: db, path: path}, nil
}

func (s *Session) Path() string { return s.path }

func (s *Session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Session) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func ensureSessionSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS view_states (
			work_mode  TEXT PRIMARY KEY,
			state_json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh databases start at 1 and migrate forward like old ones
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runSessionMigrations applies incremental schema migrations up to sessionSchemaVersion.
func runSessionMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < sessionSchemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// remember the selected image key per work mode
			stmts = []string{`ALTER TABLE view_states ADD COLUMN last_key TEXT NOT NULL DEFAULT '';`}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// SaveViews stores the active work mode and every record in one transaction.
func (s *Session) SaveViews(ctx context.Context, active string, recs []ViewRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save views: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, metaActiveMode, active); err != nil {
		return fmt.Errorf("save active mode: %w", err)
	}
	now := time.Now().UTC()
	for _, r := range recs {
		blob, err := json.Marshal(r.State)
		if err != nil {
			return fmt.Errorf("encode view %s: %w", r.WorkMode, err)
		}
		ts := r.UpdatedAt
		if ts.IsZero() {
			ts = now
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO view_states(work_mode, state_json, last_key, updated_at) VALUES(?, ?, ?, ?)
			ON CONFLICT(work_mode) DO UPDATE SET state_json=excluded.state_json, last_key=excluded.last_key, updated_at=excluded.updated_at`,
			r.WorkMode, string(blob), r.LastKey, ts.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("save view %s: %w", r.WorkMode, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save views: %w", err)
	}
	return nil
}

// LoadViews returns the stored active work mode ("" when never saved) and all records ordered by work mode.
func (s *Session) LoadViews(ctx context.Context) (string, []ViewRecord, error) {
	var active string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key=?`, metaActiveMode).Scan(&active)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", nil, fmt.Errorf("read active mode: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT work_mode, state_json, last_key, updated_at FROM view_states ORDER BY work_mode`)
	if err != nil {
		return "", nil, fmt.Errorf("query views: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []ViewRecord
	for rows.Next() {
		var r ViewRecord
		var blob, ts string
		if err := rows.Scan(&r.WorkMode, &blob, &r.LastKey, &ts); err != nil {
			return "", nil, fmt.Errorf("scan view: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &r.State); err != nil {
			applog.WithComponent("storage").Warn("skip unreadable view state", slog.String("mode", r.WorkMode), slog.Any("err", err))
			continue
		}
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("iterate views: %w", err)
	}
	return active, out, nil
}
