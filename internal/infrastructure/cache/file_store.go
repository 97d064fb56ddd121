package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/spf13/afero"
)

const (
	// DefaultFilePrefix prefixes every partition file name
	DefaultFilePrefix = "checks_"
	fileExt           = ".json"
)

// FileStore keeps one file per partition key in a directory. The file
// modification time is the partition timestamp.
type FileStore struct {
	afs    afero.Fs
	dir    string
	prefix string
}

// FileStoreOption configures a FileStore
type FileStoreOption func(*FileStore)

// WithFilePrefix sets the file name prefix
func WithFilePrefix(prefix string) FileStoreOption {
	return func(s *FileStore) {
		s.prefix = prefix
	}
}

// NewFileStore creates the directory if needed and returns a store over it
func NewFileStore(afs afero.Fs, dir string, opts ...FileStoreOption) (*FileStore, error) {
	if afs == nil {
		afs = afero.NewOsFs()
	}
	s := &FileStore{
		afs:    afs,
		dir:    dir,
		prefix: DefaultFilePrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := afs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return s, nil
}

// Path returns the file path for key
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, s.prefix+key+fileExt)
}

func (s *FileStore) checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", shared.ErrInvalidPartition, key)
	}
	return nil
}

// Load reads the partition file and its modification time
func (s *FileStore) Load(_ context.Context, key string) ([]byte, time.Time, error) {
	if err := s.checkKey(key); err != nil {
		return nil, time.Time{}, err
	}
	path := s.Path(key)
	info, err := s.afs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, ErrPartitionNotFound
		}
		return nil, time.Time{}, fmt.Errorf("failed to stat cache file: %w", err)
	}
	data, err := afero.ReadFile(s.afs, path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read cache file: %w", err)
	}
	return data, info.ModTime(), nil
}

// Save writes the partition through a temporary file and a rename
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	path := s.Path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.afs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := s.afs.Rename(tmp, path); err != nil {
		_ = s.afs.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Delete removes the partition file. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	if err := s.afs.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every file carrying this store's prefix and extension
func (s *FileStore) Clear(_ context.Context) error {
	infos, err := afero.ReadDir(s.afs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list cache directory: %w", err)
	}

	var errs []error
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if err := s.afs.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ PartitionStore = (*FileStore)(nil)
