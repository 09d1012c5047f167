package payloadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meetsync/meetsync/internal/model"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS webhook_payloads (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	received_at TIMESTAMP NOT NULL,
	body        BLOB NOT NULL
)`

// SQLiteStore persists received payloads in a local SQLite file, surviving
// restarts of a single instance.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path with WAL
// journal mode and ensures the payload table exists.
func Open(path string) (*SQLiteStore, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO webhook_payloads (received_at, body) VALUES (?, ?)`,
		time.Now().UTC(), body)
	return err
}

func (s *SQLiteStore) GetLatest(ctx context.Context) ([]byte, time.Time, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT received_at, body FROM webhook_payloads ORDER BY id DESC LIMIT 1`)
	var receivedAt time.Time
	var body []byte
	if err := row.Scan(&receivedAt, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, model.ErrNotFound
		}
		return nil, time.Time{}, err
	}
	return body, receivedAt, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
