package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"love-manager-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists the last acknowledged list per view so a cache
// can show something while the server is unreachable.
type SnapshotStore interface {
	Save(ctx context.Context, view models.Status, partners []models.Partner) error
	Load(ctx context.Context, view models.Status) ([]models.Partner, error)
}

// FileSnapshotStore keeps one JSON file per view in a directory
type FileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore creates dir if needed
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(view models.Status) string {
	return filepath.Join(s.dir, "partners-"+string(view)+".json")
}

// Save writes the snapshot through a temp file so readers never see a partial write
func (s *FileSnapshotStore) Save(ctx context.Context, view models.Status, partners []models.Partner) error {
	data, err := json.Marshal(partners)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "partners-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(view)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load returns the saved snapshot; nil when none exists
func (s *FileSnapshotStore) Load(ctx context.Context, view models.Status) ([]models.Partner, error) {
	data, err := os.ReadFile(s.path(view))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var partners []models.Partner
	if err := json.Unmarshal(data, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return partners, nil
}

const snapshotKeyPrefix = "love:snapshot:"

// RedisSnapshotStore keeps snapshots in Redis so several client processes share them
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore wraps client; ttl 0 keeps snapshots forever
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, view models.Status, partners []models.Partner) error {
	data, err := json.Marshal(partners)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKeyPrefix+string(view), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context, view models.Status) ([]models.Partner, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+string(view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var partners []models.Partner
	if err := json.Unmarshal(data, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return partners, nil
}
