package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"pdfqa/internal/config"
)

// localStorage implements the Storage interface on the local filesystem.
// Blobs live directly under the upload directory, named by their key, which
// is the contract the public /uploads/ path depends on.
type localStorage struct {
	dir string
}

// NewLocal creates a filesystem-backed storage rooted at the configured
// upload directory, creating it if missing.
func NewLocal(cfg config.StorageConfig) (Storage, error) {
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStorage{dir: cfg.UploadDir}, nil
}

// path resolves a key inside the upload directory, rejecting keys that would
// escape it.
func (l *localStorage) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	if strings.Contains(key, "/") || strings.Contains(key, "\\") || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.dir, key), nil
}

// Put writes the blob to disk, silently overwriting any existing file with
// the same key (last writer wins).
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.Create(p)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return ObjectInfo{}, fmt.Errorf("write file: %w", err)
	}

	st, err := os.Stat(p)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat file: %w", err)
	}

	ct := opt.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(key))
	}

	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  ct,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the blob for streaming.
func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}

	info := ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}
	return f, info, nil
}

// Delete removes the blob. Absence of the file is not an error.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// URL maps a key to its public download path.
func (l *localStorage) URL(key string) string {
	return PublicPrefix + key
}
