package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// Storage is the durable backend behind the pending-proposal store: a
// single keyed blob holding the JSON-serialized pending set. Written on
// every store mutation, removed entirely when the set becomes empty,
// read once at session start to rehydrate.
type Storage interface {
	Load(ctx context.Context) ([]*domain.Proposal, error)
	Save(ctx context.Context, proposals []*domain.Proposal) error
	Clear(ctx context.Context) error
}

// FileStorage persists the pending set as a JSON file on disk.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load(ctx context.Context) ([]*domain.Proposal, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pending proposals: %w", err)
	}

	var proposals []*domain.Proposal
	if err := json.Unmarshal(data, &proposals); err != nil {
		return nil, fmt.Errorf("decode pending proposals: %w", err)
	}
	return proposals, nil
}

func (s *FileStorage) Save(ctx context.Context, proposals []*domain.Proposal) error {
	data, err := json.Marshal(proposals)
	if err != nil {
		return fmt.Errorf("encode pending proposals: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the blob.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write pending proposals: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace pending proposals: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pending proposals: %w", err)
	}
	return nil
}
