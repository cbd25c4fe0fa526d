package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps blobs on the local filesystem under baseDir, sharded by
// the first two characters of the key to keep directories small.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.baseDir, key[:2], key)
}

// Save writes through a temp file and renames into place, so a crash mid-write
// never leaves a partial blob at a key the database might reference.
func (s *LocalStorage) Save(ctx context.Context, r io.Reader) (string, string, int64, error) {
	key := uuid.New().String()
	dir := filepath.Join(s.baseDir, key[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", 0, err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", "", 0, err
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	size, err := io.Copy(tmp, io.TeeReader(r, hasher))
	if err != nil {
		tmp.Close()
		return "", "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", "", 0, err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, key)); err != nil {
		return "", "", 0, err
	}
	return key, hex.EncodeToString(hasher.Sum(nil)), size, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
