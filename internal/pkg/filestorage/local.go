package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yigit/notehub/internal/pkg/logger"
)

// LocalStorage keeps blobs on the local filesystem, one directory per namespace.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The base URL the storage directory is served under
}

// NewLocalStorage creates a new LocalStorage instance and ensures the namespace directories exist.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	for _, ns := range []Namespace{NamespaceNotes, NamespaceAvatars} {
		dir := filepath.Join(basePath, string(ns))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Str("path", dir).Msg("Failed to create storage directory")
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the directory backing a namespace
func (ls *LocalStorage) Dir(ns Namespace) string {
	return filepath.Join(ls.basePath, string(ns))
}

// resolve maps a namespaced blob path onto the filesystem, rejecting anything
// that would leave the namespace directory.
func (ls *LocalStorage) resolve(ns Namespace, blobPath string) (string, error) {
	if ns != NamespaceNotes && ns != NamespaceAvatars {
		return "", fmt.Errorf("%w: unknown namespace %q", ErrInvalidPath, ns)
	}
	cleaned := path.Clean("/" + blobPath)
	if blobPath == "" || cleaned == "/" || strings.Contains(blobPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, blobPath)
	}
	return filepath.Join(ls.basePath, string(ns), filepath.FromSlash(cleaned)), nil
}

// Put writes to a temp file next to the destination and renames it into place,
// so readers never observe a half-written blob.
func (ls *LocalStorage) Put(ctx context.Context, ns Namespace, blobPath string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dstPath, err := ls.resolve(ns, blobPath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create blob directory")
		return 0, fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".upload-*")
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create temp file")
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write blob content")
		return 0, fmt.Errorf("failed to write blob content: %w", err)
	}

	if err := os.Rename(tmpName, dstPath); err != nil {
		_ = os.Remove(tmpName)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move blob into place")
		return 0, fmt.Errorf("failed to move blob into place: %w", err)
	}

	logger.Debug().Str("namespace", string(ns)).Str("path", blobPath).Int64("size", written).Msg("Blob stored")
	return written, nil
}

// Open returns a reader over a stored blob
func (ls *LocalStorage) Open(ctx context.Context, ns Namespace, blobPath string) (io.ReadCloser, *BlobInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fullPath, err := ls.resolve(ns, blobPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrBlobNotFound, ns, blobPath)
		}
		return nil, nil, fmt.Errorf("failed to open blob: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat blob: %w", err)
	}

	return f, &BlobInfo{Namespace: ns, Path: blobPath, Size: stat.Size()}, nil
}

// Delete removes a blob. Deleting a missing blob succeeds.
func (ls *LocalStorage) Delete(ctx context.Context, ns Namespace, blobPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := ls.resolve(ns, blobPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", fullPath).Msg("Blob to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete blob")
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	logger.Info().Str("path", fullPath).Msg("Blob deleted")
	return nil
}

// PublicURL returns <baseURL>/<namespace>/<path>
func (ls *LocalStorage) PublicURL(ns Namespace, blobPath string) string {
	return ls.baseURL + "/" + string(ns) + "/" + strings.TrimLeft(blobPath, "/")
}
