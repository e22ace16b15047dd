package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/persona-cli/internal/ports"
)

const (
	storeDirMode  = 0o700
	entryFileMode = 0o600
)

// Store is a file-per-key key-value store. Each key becomes one file under
// the root directory, the key path-escaped into the file name. An optional
// byte quota makes writes fail with ports.ErrQuotaExceeded once the total
// stored size would exceed it, mirroring a browser-storage quota.
type Store struct {
	root  string
	quota int64
	mu    sync.RWMutex
}

var _ ports.KVStore = (*Store)(nil)

func NewStore(root string, quota int64) *Store {
	return &Store{root: filepath.Clean(root), quota: quota}
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, storeDirMode); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	if s.quota > 0 {
		used, err := s.usedBytesLocked()
		if err != nil {
			return err
		}
		var existing int64
		if info, statErr := os.Stat(path); statErr == nil {
			existing = info.Size()
		}
		if used-existing+int64(len(value)) > s.quota {
			return fmt.Errorf("write entry %q: %w", key, ports.ErrQuotaExceeded)
		}
	}

	if err := os.WriteFile(path, []byte(value), entryFileMode); err != nil {
		return fmt.Errorf("write entry %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("entry %q: %w", key, ports.ErrKeyNotFound)
		}
		return "", fmt.Errorf("read entry %q: %w", key, err)
	}

	return string(data), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete entry %q: %w", key, err)
	}

	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list store directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, err := url.PathUnescape(entry.Name())
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("store key is empty")
	}

	return filepath.Join(s.root, url.PathEscape(trimmed)), nil
}

func (s *Store) usedBytesLocked() (int64, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list store directory: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}

	return total, nil
}
