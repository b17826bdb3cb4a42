// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

/*
Package storage provides the object store that holds journal PDF files.

It defines a narrow Store interface consumed by the journal service, the PDF
proxy, and the viewer's blob-fetch tier, plus a local filesystem implementation
and an HTTP handler that serves stored objects at their public URLs.

Public URLs follow the convention

	<base>/storage/v1/o/<percent-encoded-path>?alt=media

where the full object path (slashes included) is percent-encoded into a single
path segment after the "o" marker. [ResolvePath] inverts this encoding.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when an object does not exist at the given path.
var ErrNotFound = errors.New("storage: object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	// Path is the object path relative to the store root (e.g. "journals/<id>/issue.pdf").
	Path string
	// Size is the object size in bytes.
	Size int64
	// ContentType is the MIME type derived from the object's extension.
	ContentType string
	// UpdatedAt is the last modification time.
	UpdatedAt time.Time
}

// Store is the object-store contract used across the delivery pipeline.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Upload stores data at path, replacing any existing object.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// PublicURL returns the externally reachable URL for an object path.
	PublicURL(path string) string

	// Open returns a streaming reader for the object.
	// Returns [ErrNotFound] if the object does not exist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Bytes reads the entire object into memory.
	// Returns [ErrNotFound] if the object does not exist.
	Bytes(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Metadata returns size and type information for an object.
	// Returns [ErrNotFound] if the object does not exist.
	Metadata(ctx context.Context, path string) (*ObjectInfo, error)

	// Delete removes the object at path. Deleting a missing object is an error.
	Delete(ctx context.Context, path string) error
}
