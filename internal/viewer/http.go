// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"context"
	"errors"
	"image/png"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	requestutil "github.com/lehoangminh/folio/internal/platform/request"
	"github.com/lehoangminh/folio/internal/platform/respond"
)

// DocumentSource resolves a journal ID to its stored document URL.
type DocumentSource interface {
	DocumentURL(ctx context.Context, id string) (string, error)
}

// Handler serves server-side page previews as PNG images.
//
// The fetch strategy used here is parse-only (direct and blob tiers); an
// embed URL is useless for rasterization.
type Handler struct {
	source   DocumentSource
	strategy *Strategy
}

func NewHandler(source DocumentSource, strategy *Strategy) *Handler {
	return &Handler{source: source, strategy: strategy}
}

// RegisterRoutes mounts the preview endpoint on a journal-scoped router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{id}/preview", handler.Preview)
}

// Preview handles GET /{id}/preview?page=N&scale=S.
//
// # Flow
//  1. Resolve the journal's document URL; no document is a 404.
//  2. Fetch and parse through the tiered strategy.
//  3. Render the requested page (clamped to range) at the clamped scale.
//  4. Encode as PNG.
func (handler *Handler) Preview(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	documentURL, err := handler.source.DocumentURL(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if documentURL == "" {
		respond.Error(writer, request, apperr.NotFound("Journal document"))
		return
	}

	result, err := handler.strategy.Fetch(request.Context(), id, documentURL)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			respond.Error(writer, request, apperr.ServiceUnavailable("Document is currently unavailable"))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	document := result.Document
	defer func() { _ = document.Close() }()

	pageNumber := parseIntQuery(request, "page", 1)
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > document.PageCount() {
		pageNumber = document.PageCount()
	}

	scale := ClampScale(parseFloatQuery(request, "scale", 1.0))

	renderer := NewRenderer(document)
	defer renderer.Close()

	img, err := renderer.RenderPage(pageNumber, scale)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	writer.Header().Set("Content-Type", "image/png")
	writer.Header().Set("Cache-Control", "public, max-age=300")
	if err := png.Encode(writer, img); err != nil {
		// Headers are gone; nothing recoverable beyond logging upstream.
		return
	}
}

func parseIntQuery(request *http.Request, key string, fallback int) int {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloatQuery(request *http.Request, key string, fallback float64) float64 {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}
