// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package storage_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangminh/folio/internal/storage"
)

func newTestStore(t *testing.T) *storage.FSStore {
	t.Helper()

	store, err := storage.NewFSStore(t.TempDir(), "http://localhost:8080", slog.Default())
	require.NoError(t, err)
	return store
}

/*
TestFSStore_UploadAndRead verifies the full write/read cycle of the
filesystem store.
*/
func TestFSStore_UploadAndRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	payload := []byte("%PDF-1.7 test payload")

	// 1. Upload an object
	err := store.Upload(ctx, "journals/j1/issue.pdf", payload, "application/pdf")
	require.NoError(t, err)

	// 2. Existence check
	exists, err := store.Exists(ctx, "journals/j1/issue.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	// 3. Read back via Bytes
	data, err := store.Bytes(ctx, "journals/j1/issue.pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// 4. Read back via streaming Open
	reader, err := store.Open(ctx, "journals/j1/issue.pdf")
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	streamed, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, streamed)
}

/*
TestFSStore_Metadata checks size and content-type reporting.
*/
func TestFSStore_Metadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	payload := []byte("0123456789")

	require.NoError(t, store.Upload(ctx, "journals/j1/issue.pdf", payload, "application/pdf"))

	meta, err := store.Metadata(ctx, "journals/j1/issue.pdf")
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), meta.Size)
	assert.Equal(t, "application/pdf", meta.ContentType)
	assert.Equal(t, "journals/j1/issue.pdf", meta.Path)
}

/*
TestFSStore_MissingObject verifies ErrNotFound behavior on absent paths.
*/
func TestFSStore_MissingObject(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// 1. Exists is false, not an error
	exists, err := store.Exists(ctx, "journals/ghost/missing.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// 2. Open, Bytes, and Metadata surface ErrNotFound
	_, err = store.Open(ctx, "journals/ghost/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Bytes(ctx, "journals/ghost/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Metadata(ctx, "journals/ghost/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// 3. Deleting a missing object is an error
	err = store.Delete(ctx, "journals/ghost/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

/*
TestFSStore_Delete verifies object removal.
*/
func TestFSStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upload(ctx, "journals/j1/issue.pdf", []byte("data"), "application/pdf"))
	require.NoError(t, store.Delete(ctx, "journals/j1/issue.pdf"))

	exists, err := store.Exists(ctx, "journals/j1/issue.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestFSStore_PathTraversalRejected ensures objects cannot escape the store root.
*/
func TestFSStore_PathTraversalRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upload(ctx, "../outside.pdf", []byte("data"), "application/pdf")
	assert.Error(t, err)

	_, err = store.Open(ctx, "journals/../../etc/passwd")
	assert.Error(t, err)
}
