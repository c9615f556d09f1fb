package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSlotStore stores each slot as a 0600 file under Dir.
type FileSlotStore struct {
	dir string
}

// NewFileSlotStore returns a store rooted at dir. The directory is created on first write.
func NewFileSlotStore(dir string) *FileSlotStore {
	return &FileSlotStore{dir: dir}
}

// Path returns the file backing slot.
func (s *FileSlotStore) Path(slot string) (string, error) {
	if slot == "" || slot != filepath.Base(slot) || strings.HasPrefix(slot, ".") {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, slot), nil
}

func (s *FileSlotStore) Load(_ context.Context, slot string) (string, bool, error) {
	path, err := s.Path(slot)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return string(data), true, nil
}

func (s *FileSlotStore) Save(_ context.Context, slot, value string) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+".*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod slot: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("commit slot %s: %w", slot, err)
	}
	return nil
}

func (s *FileSlotStore) Delete(_ context.Context, slot string) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove slot %s: %w", slot, err)
	}
	return nil
}
