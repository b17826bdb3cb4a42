// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

/*
Package pdfproxy serves journal PDFs through clean, cacheable URLs.

It sits between readers and the object store: the client only ever sees
/pdf/<journal-id>, while the handler resolves the record, extracts the object
path from the stored public URL, and streams the bytes with inline-viewing
headers. This avoids exposing raw storage URLs and sidesteps cross-origin
restrictions when the PDF is embedded in an iframe.

# Statelessness

The handler keeps no mutable state between requests. Every request performs a
fresh record lookup; nothing is memoized.
*/
package pdfproxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	"github.com/lehoangminh/folio/internal/platform/constants"
	"github.com/lehoangminh/folio/internal/platform/ctxutil"
	"github.com/lehoangminh/folio/internal/storage"
)

// Delivery is the minimal journal projection the proxy needs.
type Delivery struct {
	ID     string
	Title  string
	PDFURL string
}

// RecordSource provides journal delivery data and the view counter.
//
// # Why an interface?
//
// The proxy only needs two operations from the journal domain. Depending on
// this narrow interface keeps the package testable with in-memory fakes and
// free of a dependency on the journal service.
type RecordSource interface {
	// Delivery returns the delivery projection for a journal ID.
	Delivery(ctx context.Context, id string) (*Delivery, error)

	// IncrementViewCount bumps the journal's view counter by one.
	IncrementViewCount(ctx context.Context, id string) error
}

// Handler is the stateless PDF delivery endpoint.
type Handler struct {
	records RecordSource
	objects storage.Store
}

// NewHandler creates the PDF proxy handler.
func NewHandler(records RecordSource, objects storage.Store) *Handler {
	return &Handler{records: records, objects: objects}
}

// ServeHTTP implements the delivery flow.
//
// # Flow
//  1. Set CORS and framing headers on every response.
//  2. OPTIONS preflight → 204, non-GET → 405.
//  3. Extract the journal ID from the trailing path segment.
//  4. Look up the record; missing record or missing PDF URL → 404.
//  5. Best-effort view count increment (never fails the request).
//  6. Resolve the stored URL to an object path → 500 on malformed URLs.
//  7. Existence check → 404, then metadata read.
//  8. Stream the bytes with inline PDF headers.
func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	logger := ctxutil.GetLogger(request.Context())

	// 1. Headers that allow same-origin iframe embedding
	header := writer.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	header.Set("X-Frame-Options", "SAMEORIGIN")

	// 2. Method gate
	if request.Method == http.MethodOptions {
		writer.WriteHeader(http.StatusNoContent)
		return
	}
	if request.Method != http.MethodGet {
		http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 3. Journal ID is the trailing path segment
	segments := strings.Split(request.URL.Path, "/")
	journalID := segments[len(segments)-1]
	if journalID == "" {
		http.Error(writer, "Journal ID required", http.StatusBadRequest)
		return
	}

	logger.InfoContext(request.Context(), "pdf_requested", slog.String("journal_id", journalID))

	// 4. Record lookup
	delivery, err := h.records.Delivery(request.Context(), journalID)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusNotFound {
			logger.WarnContext(request.Context(), "journal_record_missing", slog.String("journal_id", journalID))
			http.Error(writer, "Journal not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(request.Context(), "journal_lookup_failed",
			slog.String("journal_id", journalID),
			slog.Any("error", err),
		)
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	if delivery.PDFURL == "" {
		logger.WarnContext(request.Context(), "journal_pdf_missing", slog.String("journal_id", journalID))
		http.Error(writer, "PDF not available", http.StatusNotFound)
		return
	}

	// 5. View count increment must never block delivery
	if err := h.records.IncrementViewCount(request.Context(), journalID); err != nil {
		logger.WarnContext(request.Context(), "view_count_increment_failed",
			slog.String("journal_id", journalID),
			slog.Any("error", err),
		)
	}

	// 6. Stored URL → object path
	objectPath, ok := storage.ResolvePath(delivery.PDFURL)
	if !ok {
		logger.ErrorContext(request.Context(), "invalid_storage_url",
			slog.String("journal_id", journalID),
		)
		http.Error(writer, "Invalid PDF reference", http.StatusInternalServerError)
		return
	}

	// 7. Object presence and metadata
	exists, err := h.objects.Exists(request.Context(), objectPath)
	if err != nil {
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !exists {
		logger.WarnContext(request.Context(), "pdf_object_missing",
			slog.String("journal_id", journalID),
			slog.String("path", objectPath),
		)
		http.Error(writer, "PDF file not found", http.StatusNotFound)
		return
	}

	meta, err := h.objects.Metadata(request.Context(), objectPath)
	if err != nil {
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	reader, err := h.objects.Open(request.Context(), objectPath)
	if err != nil {
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = reader.Close() }()

	// 8. Inline PDF headers and streaming
	title := delivery.Title
	if title == "" {
		title = "journal"
	}

	header.Set("Content-Type", "application/pdf")
	header.Set("Content-Disposition", `inline; filename="`+SanitizeFilename(title)+`.pdf"`)
	header.Set("Cache-Control", constants.PDFCacheControl)
	if meta.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}

	if _, err := io.Copy(writer, reader); err != nil {
		// Headers already went out; the connection is the only casualty.
		logger.ErrorContext(request.Context(), "pdf_stream_failed",
			slog.String("journal_id", journalID),
			slog.Any("error", err),
		)
	}
}
