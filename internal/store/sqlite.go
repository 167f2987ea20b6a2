package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/rcliao/trackr/internal/model"
)

const schemaVersion = "1"

// sqliteBackend keeps the whole container in memory and mirrors each day
// partition into one row of the days table.
type sqliteBackend struct {
	db   *sqlx.DB
	path string
	data container
}

// openSQLiteBackend creates dir if needed and opens records.db inside it.
// Setup failures are returned as plain errors so the caller can fall back;
// a failure to read an existing file is a *DBError.
func openSQLiteBackend(ctx context.Context, dir string) (*sqliteBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	b := &sqliteBackend{db: db, path: path, data: container{}}
	if err := b.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if fresh {
		if err := b.save(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize %s: %w", path, err)
		}
		return b, nil
	}
	if err := b.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *sqliteBackend) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS days (
		day_key    TEXT PRIMARY KEY,
		records    BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := b.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('created_at', ?), ('schema_version', ?)`,
		now, schemaVersion); err != nil {
		return err
	}
	return nil
}

func (b *sqliteBackend) kind() BackendKind { return BackendFile }

type dayRow struct {
	DayKey  string `db:"day_key"`
	Records []byte `db:"records"`
}

// load replaces the in-memory container with the file contents.
func (b *sqliteBackend) load(ctx context.Context) error {
	var rows []dayRow
	if err := b.db.SelectContext(ctx, &rows, `SELECT day_key, records FROM days`); err != nil {
		return dbErr("load", err)
	}
	data := make(container, len(rows))
	for _, r := range rows {
		recs, err := decodeDay(r.Records)
		if err != nil {
			return dbErr("load "+r.DayKey, err)
		}
		data[r.DayKey] = recs
	}
	b.data = data
	return nil
}

// save writes the given partitions in one transaction. A key missing from
// the container is deleted from the file.
func (b *sqliteBackend) save(ctx context.Context, keys ...string) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbErr("save", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, key := range keys {
		recs, ok := b.data[key]
		if !ok {
			if _, err := tx.ExecContext(ctx, `DELETE FROM days WHERE day_key = ?`, key); err != nil {
				tx.Rollback()
				return dbErr("delete "+key, err)
			}
			continue
		}
		blob, err := encodeDay(recs)
		if err != nil {
			tx.Rollback()
			return dbErr("encode "+key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO days (day_key, records, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(day_key) DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`,
			key, blob, now)
		if err != nil {
			tx.Rollback()
			return dbErr("save "+key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return dbErr("commit", err)
	}
	return nil
}

func (b *sqliteBackend) read(fn func(c container)) { fn(b.data) }

func (b *sqliteBackend) write(fn func(c container)) { fn(b.data) }

func (b *sqliteBackend) close() error {
	return b.db.Close()
}

// createdAt returns when the file was first initialized.
func (b *sqliteBackend) createdAt(ctx context.Context) (time.Time, error) {
	var v string
	err := b.db.GetContext(ctx, &v, `SELECT value FROM meta WHERE key = 'created_at'`)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

func encodeDay(recs []model.ActivityRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeDay(blob []byte) ([]model.ActivityRecord, error) {
	var recs []model.ActivityRecord
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.ActivityRecord{}
	}
	return recs, nil
}
