package model

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subgen/internal/logging"
)

// Store resolves model identities to local cache files, downloading them
// from a provider on first use.
type Store struct {
	dir      string
	provider Provider
	logger   *logging.Logger
}

// NewStore creates a model store rooted at dir.
func NewStore(dir string, provider Provider, logger *logging.Logger) *Store {
	return &Store{
		dir:      dir,
		provider: provider,
		logger:   logger,
	}
}

// Path returns the deterministic cache path for an identity.
func (s *Store) Path(id Identity) string {
	return filepath.Join(s.dir, id.FileName())
}

// Cached reports whether the identity already has a complete cache file.
func (s *Store) Cached(id Identity) bool {
	return fileReady(s.Path(id))
}

// Ensure returns the cache path for id, downloading the model first if it
// is not present. Repeat calls for a cached identity perform no network
// access. The write is atomic: a partial download never becomes visible
// under the canonical name.
func (s *Store) Ensure(ctx context.Context, id Identity) (string, error) {
	path := s.Path(id)
	if fileReady(path) {
		return path, nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating model cache dir: %w", err)
	}

	// Guard the download against concurrent ensure calls for the same
	// identity from other processes.
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("locking model cache: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("locking model cache: lock not acquired")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	// Another holder may have completed the download while we waited.
	if fileReady(path) {
		return path, nil
	}

	s.logger.Infow("downloading model",
		"model", id.String(),
		"file", id.FileName(),
	)

	body, err := s.provider.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(s.dir, id.FileName()+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp model file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := copyContext(ctx, tmp, body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing model file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("moving model file: %w", err)
	}

	s.logger.Infow("model downloaded",
		"model", id.String(),
		"bytes", written,
	)
	return path, nil
}

// fileReady reports whether path exists as a non-empty regular file.
func fileReady(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// copyContext copies src to dst in chunks, aborting when ctx is canceled.
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 256*1024)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
