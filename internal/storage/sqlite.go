package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// SQLiteStore is the durable Store backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS transcriptions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		source_type TEXT NOT NULL,
		source_name TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		file_type TEXT,
		file_size INTEGER,
		video_id TEXT,
		duration REAL,
		author TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transcriptions_created_at ON transcriptions(created_at);
	CREATE INDEX IF NOT EXISTS idx_transcriptions_source_type ON transcriptions(source_type);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const recordColumns = "id, title, source_type, source_name, text, created_at, file_type, file_size, video_id, duration, author"

// Insert stores a new record.
func (s *SQLiteStore) Insert(ctx context.Context, rec types.TranscriptionRecord) error {
	query := `INSERT INTO transcriptions (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.SourceType, rec.SourceName, rec.Text, rec.CreatedAt,
		rec.FileType, rec.FileSize, rec.VideoID, rec.Duration, rec.Author)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetByID returns a single record or ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (types.TranscriptionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM transcriptions WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return types.TranscriptionRecord{}, ErrNotFound
	}
	if err != nil {
		return types.TranscriptionRecord{}, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// List returns records newest first, optionally filtered by source type.
func (s *SQLiteStore) List(ctx context.Context, sourceType string) ([]types.TranscriptionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM transcriptions`
	args := []interface{}{}
	if sourceType != "" {
		query += ` WHERE source_type = ?`
		args = append(args, sourceType)
	}
	query += ` ORDER BY created_at DESC`

	return s.queryRecords(ctx, query, args...)
}

// Delete removes a record, reporting ErrNotFound if nothing matched.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches transcript text, newest first.
func (s *SQLiteStore) Search(ctx context.Context, term string) ([]types.TranscriptionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM transcriptions
	WHERE text LIKE '%' || ? || '%' ORDER BY created_at DESC`
	return s.queryRecords(ctx, query, term)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]types.TranscriptionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []types.TranscriptionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (types.TranscriptionRecord, error) {
	var rec types.TranscriptionRecord
	var fileType, videoID, author sql.NullString
	var fileSize sql.NullInt64
	var duration sql.NullFloat64

	err := row.Scan(&rec.ID, &rec.Title, &rec.SourceType, &rec.SourceName, &rec.Text,
		&rec.CreatedAt, &fileType, &fileSize, &videoID, &duration, &author)
	if err != nil {
		return rec, err
	}

	rec.FileType = fileType.String
	rec.FileSize = fileSize.Int64
	rec.VideoID = videoID.String
	rec.Duration = duration.Float64
	rec.Author = author.String
	return rec, nil
}
