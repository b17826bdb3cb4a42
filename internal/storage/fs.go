// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore is a [Store] backed by a local directory.
//
// # Layout
//
// Object paths map directly to files under the root directory, so the object
// "journals/<id>/issue.pdf" lives at "<root>/journals/<id>/issue.pdf".
type FSStore struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewFSStore creates the store root directory if needed and returns the store.
//
// # Parameters
//   - root: Directory that holds all objects.
//   - baseURL: Public origin embedded in object URLs (no trailing slash).
//   - logger: Structured logger for store events.
func NewFSStore(root, baseURL string, logger *slog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create root %s: %w", root, err)
	}

	return &FSStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload stores data at path, creating parent directories as needed.
func (s *FSStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("storage: failed to create directories for %s: %w", objectPath, err)
	}

	// Write to a temp file first so a crashed upload never leaves a partial
	// object visible at the final path.
	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("storage: failed to write %s: %w", objectPath, err)
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("storage: failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile.Name(), fullPath); err != nil {
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("storage: failed to finalize %s: %w", objectPath, err)
	}

	s.logger.Info("object_stored",
		slog.String("path", objectPath),
		slog.Int("size", len(data)),
		slog.String("content_type", contentType),
	)

	return nil
}

// PublicURL returns the public URL for an object path.
//
// The full path is percent-encoded into a single segment after the "o"
// marker, so [ResolvePath] can round-trip it.
func (s *FSStore) PublicURL(objectPath string) string {
	return s.baseURL + "/storage/v1/o/" + url.PathEscape(objectPath) + "?alt=media"
}

// Open returns a streaming reader for the object.
func (s *FSStore) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to open %s: %w", objectPath, err)
	}

	return file, nil
}

// Bytes reads the entire object into memory.
func (s *FSStore) Bytes(ctx context.Context, objectPath string) ([]byte, error) {
	reader, err := s.Open(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to read %s: %w", objectPath, err)
	}

	return data, nil
}

// Exists reports whether an object is present at path.
func (s *FSStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: failed to stat %s: %w", objectPath, err)
	}

	return !info.IsDir(), nil
}

// Metadata returns size and type information for an object.
func (s *FSStore) Metadata(ctx context.Context, objectPath string) (*ObjectInfo, error) {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to stat %s: %w", objectPath, err)
	}

	contentType := mime.TypeByExtension(path.Ext(objectPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &ObjectInfo{
		Path:        objectPath,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

// Delete removes the object at path.
func (s *FSStore) Delete(ctx context.Context, objectPath string) error {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("storage: failed to delete %s: %w", objectPath, err)
	}

	s.logger.Info("object_deleted", slog.String("path", objectPath))
	return nil
}

// resolve maps an object path to an absolute filesystem path, rejecting
// traversal attempts.
func (s *FSStore) resolve(objectPath string) (string, error) {
	cleaned := path.Clean("/" + objectPath)
	if cleaned == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("storage: invalid object path %q", objectPath)
	}

	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
