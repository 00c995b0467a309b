package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

type sqliteStorage struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path and
// bootstraps the schema.
func OpenSQLite(path string) (Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite works best with a single writer connection for WAL
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStorage{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		duration      REAL NOT NULL,
		file_path     TEXT NOT NULL DEFAULT '',
		url           TEXT NOT NULL DEFAULT '',
		summary       TEXT NOT NULL DEFAULT '',
		metadata      TEXT NOT NULL DEFAULT '{}',
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transcripts (
		video_id   TEXT PRIMARY KEY REFERENCES videos(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts or overwrites the video row for video.ID.
func (s *sqliteStorage) Save(ctx context.Context, video *domain.Video) error {
	meta, err := json.Marshal(video.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO videos
		(id, title, duration, file_path, url, summary, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			duration = excluded.duration,
			file_path = excluded.file_path,
			url = excluded.url,
			summary = excluded.summary,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		video.ID, video.Title, video.Duration, video.FilePath, video.URL,
		video.Summary, string(meta), video.CreatedAt.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save video %s: %w", video.ID, err)
	}
	return nil
}

// Load returns the stored video, or (nil, nil) when id is unknown. The
// transcript, if any, is loaded into the returned entity.
func (s *sqliteStorage) Load(ctx context.Context, id string) (*domain.Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, duration, file_path, url, summary, metadata, created_at
		FROM videos WHERE id = ?`, id)

	var v domain.Video
	var meta string
	err := row.Scan(&v.ID, &v.Title, &v.Duration, &v.FilePath, &v.URL, &v.Summary, &meta, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load video %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(meta), &v.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
	}

	transcript, err := s.LoadTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Transcription = transcript

	return &v, nil
}

// SaveTranscript inserts or overwrites the transcript for id.
func (s *sqliteStorage) SaveTranscript(ctx context.Context, id, text string, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal transcript metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO transcripts (video_id, content, metadata, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		id, text, string(meta), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save transcript %s: %w", id, err)
	}
	return nil
}

// LoadTranscript returns the stored transcript text, or ("", nil) when
// none exists.
func (s *sqliteStorage) LoadTranscript(ctx context.Context, id string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT content FROM transcripts WHERE video_id = ?`, id)

	var content string
	err := row.Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load transcript %s: %w", id, err)
	}
	return content, nil
}

// List returns stored videos newest first.
func (s *sqliteStorage) List(ctx context.Context, limit, offset int) ([]*domain.Video, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, duration, file_path, url, summary, metadata, created_at
		FROM videos ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		var v domain.Video
		var meta string
		if err := rows.Scan(&v.ID, &v.Title, &v.Duration, &v.FilePath, &v.URL, &v.Summary, &meta, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &v.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", v.ID, err)
		}
		videos = append(videos, &v)
	}

	return videos, rows.Err()
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
