// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package storage

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehoangminh/folio/internal/platform/ctxutil"
)

// Handler serves stored objects at their public URLs.
//
// It is mounted at /storage/v1/o/ and resolves the request URL with
// [ResolvePath] — the exact inverse of [FSStore.PublicURL] — so every URL the
// store hands out is reachable through this handler.
type Handler struct {
	store Store
}

// NewHandler creates the object-serving handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// ServeHTTP streams the requested object.
//
// # Flow
//  1. Only GET is allowed.
//  2. Resolve the object path from the request URL.
//  3. Stream the object with its metadata headers.
func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	objectPath, ok := ResolvePath(request.URL.String())
	if !ok {
		http.NotFound(writer, request)
		return
	}

	meta, err := h.store.Metadata(request.Context(), objectPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(writer, request)
			return
		}
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	reader, err := h.store.Open(request.Context(), objectPath)
	if err != nil {
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = reader.Close() }()

	writer.Header().Set("Content-Type", meta.ContentType)
	writer.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	writer.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(writer, reader); err != nil {
		// Headers are already sent; all we can do is log the broken stream.
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "object_stream_failed",
			slog.String("path", objectPath),
			slog.Any("error", err),
		)
	}
}
