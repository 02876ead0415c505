package filestorage

import (
	"context"
	"errors"
	"io"
)

// Namespace is a top-level blob bucket
type Namespace string

const (
	// NamespaceNotes holds uploaded note files under <ownerID>/<uuid>.<ext>
	NamespaceNotes Namespace = "notes"
	// NamespaceAvatars holds profile pictures under <profileID>/avatar.<ext>
	NamespaceAvatars Namespace = "avatars"
)

var (
	// ErrBlobNotFound is returned by Open when nothing is stored at the path
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidPath is returned for empty paths or paths escaping their namespace
	ErrInvalidPath = errors.New("invalid blob path")
)

// BlobInfo describes a stored blob
type BlobInfo struct {
	Namespace Namespace
	Path      string
	Size      int64
}

// BlobStore defines the blob operations the services rely on.
// Writes are keyed by path: a second Put to the same path replaces the first.
type BlobStore interface {
	// Put stores the content of r at path and returns the number of bytes written
	Put(ctx context.Context, ns Namespace, path string, r io.Reader) (int64, error)

	// Open returns a reader over the blob at path
	Open(ctx context.Context, ns Namespace, path string) (io.ReadCloser, *BlobInfo, error)

	// Delete removes the blob at path; a missing blob is not an error
	Delete(ctx context.Context, ns Namespace, path string) error

	// PublicURL returns the stable public reference for path
	PublicURL(ns Namespace, path string) string
}
