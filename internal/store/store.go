// Package store persists episode metadata in a SQLite database.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fsmatos/nl2audio-cli/internal/domain/episode"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// episodeRow is the GORM model backing episode.Episode.
type episodeRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
	Source      string
	Hash        string `gorm:"uniqueIndex;not null"`
	MP3Path     string
	DurationSec int
}

func (episodeRow) TableName() string { return "episodes" }

// DB is the SQLite-backed episode.Repository.
type DB struct {
	db *gorm.DB
}

// Open creates or opens the episode database at path and migrates the
// schema. Parent directories are created as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&episodeRow{}); err != nil {
		return nil, fmt.Errorf("migrate episodes: %w", err)
	}
	return &DB{db: db}, nil
}

// Add records ep, hashing content with SHA-256 for idempotence. Adding
// content whose hash already exists returns the existing row untouched.
func (s *DB) Add(ctx context.Context, ep *episode.Episode, content []byte) (*episode.Episode, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	var existing episodeRow
	err := s.db.WithContext(ctx).Where("hash = ?", hash).First(&existing).Error
	switch {
	case err == nil:
		logger.Info("episode already recorded, skipping", "title", existing.Title, "hash", hash[:12])
		return toDomain(&existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup episode by hash: %w", err)
	}

	row := episodeRow{
		Title:       ep.Title,
		CreatedAt:   ep.CreatedAt,
		Source:      ep.Source,
		Hash:        hash,
		MP3Path:     ep.MP3Path,
		DurationSec: ep.DurationSec,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}
	return toDomain(&row), nil
}

// List returns all episodes ordered by creation time ascending.
func (s *DB) List(ctx context.Context) ([]episode.Episode, error) {
	var rows []episodeRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	out := make([]episode.Episode, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomain(&rows[i]))
	}
	return out, nil
}

func toDomain(r *episodeRow) *episode.Episode {
	return &episode.Episode{
		ID:          r.ID,
		Title:       r.Title,
		CreatedAt:   r.CreatedAt,
		Source:      r.Source,
		Hash:        r.Hash,
		MP3Path:     r.MP3Path,
		DurationSec: r.DurationSec,
	}
}
