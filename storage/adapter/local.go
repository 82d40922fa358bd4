package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/indieinfra/scribble-media/config"
	storageutil "github.com/indieinfra/scribble-media/storage/util"
)

var closeFile = func(f *os.File) error {
	return f.Close()
}

// Local stores media files in a directory on disk.
type Local struct {
	basePath  string
	publicURL string
	mu        sync.RWMutex // Protects file operations
}

// NewLocal creates a local adapter, creating the base directory if needed.
func NewLocal(cfg *config.LocalAdapter) (*Local, error) {
	if cfg == nil {
		return nil, fmt.Errorf("local adapter config is nil")
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Local{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(cfg.PublicUrl),
	}, nil
}

func (l *Local) Kind() Kind { return KindLocal }

func (l *Local) sealed() {}

// Write saves r to the file named by key. Existing files are never
// overwritten. Metadata is not stored on disk.
func (l *Local) Write(ctx context.Context, key string, r io.Reader, size int64, metadata map[string]any) error {
	absPath, err := l.resolve(key)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	outFile, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %q", ErrObjectExists, key)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		// Attempt to clean up partial file
		_ = outFile.Close()
		_ = os.Remove(absPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := closeFile(outFile); err != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	absPath, err := l.resolve(key)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	absPath, err := l.resolve(key)
	if err != nil {
		return false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	return true, nil
}

func (l *Local) URL(key string) string {
	return l.publicURL + key
}

// resolve maps a slash separated key onto the base directory, refusing keys
// that would land outside it.
func (l *Local) resolve(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("key %q escapes the adapter root", key)
	}

	return filepath.Join(l.basePath, rel), nil
}
