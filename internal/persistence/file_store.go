package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// FileStore keeps one indented JSON document per game in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("invalid game id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, record GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(record.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode game %s: %w", record.ID, err)
	}

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(s.dir, record.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write game %s: %w", record.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write game %s: %w", record.ID, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write game %s: %w", record.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write game %s: %w", record.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write game %s: %w", record.ID, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return GameRecord{}, err
	}
	path, err := s.path(id)
	if err != nil {
		return GameRecord{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return GameRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}

	var record GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return GameRecord{}, fmt.Errorf("%w: %s: %v", ErrMalformedSnapshot, id, err)
	}
	return record, nil
}
