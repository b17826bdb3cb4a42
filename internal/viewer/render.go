// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"errors"
	"image"
	"math"
	"sync"

	"github.com/lehoangminh/folio/internal/platform/constants"
)

// ErrSuperseded is returned when a newer render request started while this
// one was still drawing. The stale result is discarded, never delivered.
var ErrSuperseded = errors.New("viewer: render superseded by a newer request")

// # Zoom Math

// ClampScale bounds a zoom factor to the supported range.
func ClampScale(scale float64) float64 {
	return math.Min(constants.ViewerMaxScale, math.Max(constants.ViewerMinScale, scale))
}

// ZoomIn returns the next zoom step up, clamped.
func ZoomIn(scale float64) float64 {
	return ClampScale(scale * constants.ViewerZoomStep)
}

// ZoomOut returns the next zoom step down, clamped.
func ZoomOut(scale float64) float64 {
	return ClampScale(scale / constants.ViewerZoomStep)
}

// EffectiveScale computes the zoom actually applied when drawing.
//
// # Fullscreen Fit
//
// In fullscreen, a margin is subtracted from both container axes and the page
// is fitted into the remainder; the more restrictive axis wins. The auto
// ratio multiplies the user zoom only when it falls strictly inside the
// supported zoom range; an extreme ratio leaves the user zoom untouched.
func EffectiveScale(page Dimensions, container Dimensions, userScale float64, fullscreen bool) float64 {
	if !fullscreen {
		return userScale
	}
	if page.Width <= 0 || page.Height <= 0 {
		return userScale
	}

	availableWidth := container.Width - constants.ViewerFullscreenMargin
	availableHeight := container.Height - constants.ViewerFullscreenMargin

	autoScale := math.Min(availableWidth/page.Width, availableHeight/page.Height)

	if autoScale > constants.ViewerMinScale && autoScale < constants.ViewerMaxScale {
		return autoScale * userScale
	}

	return userScale
}

// # Page Renderer

// Renderer draws pages of a single document to images.
//
// # Lifecycle
//
// The renderer owns at most one open page handle: the previous page is
// released before the next one is drawn. Render requests carry a generation
// token; when a newer request arrives while an older one is still rasterizing,
// the older result is discarded and [ErrSuperseded] is returned.
type Renderer struct {
	mu          sync.Mutex
	document    Document
	currentPage Page
	generation  uint64
}

// NewRenderer creates a renderer over a parsed document.
func NewRenderer(document Document) *Renderer {
	return &Renderer{document: document}
}

// RenderPage draws the 1-based page at the given effective scale.
//
// # Flow
//  1. Claim a new generation and release the previously open page.
//  2. Open the requested page.
//  3. Rasterize outside the lock (the expensive part).
//  4. Deliver only if no newer request has claimed the generation since.
func (r *Renderer) RenderPage(pageNumber int, scale float64) (image.Image, error) {
	r.mu.Lock()

	r.generation++
	token := r.generation

	// Release the prior page handle before drawing the next.
	if r.currentPage != nil {
		_ = r.currentPage.Close()
		r.currentPage = nil
	}

	page, err := r.document.Page(pageNumber)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	img, renderErr := page.Render(scale)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A newer request claimed the renderer while we were drawing.
	if token != r.generation {
		_ = page.Close()
		return nil, ErrSuperseded
	}

	if renderErr != nil {
		_ = page.Close()
		return nil, renderErr
	}

	r.currentPage = page
	return img, nil
}

// PageDimensions returns the intrinsic size of a page without rendering it.
func (r *Renderer) PageDimensions(pageNumber int) (Dimensions, error) {
	page, err := r.document.Page(pageNumber)
	if err != nil {
		return Dimensions{}, err
	}
	defer func() { _ = page.Close() }()

	return page.Dimensions(), nil
}

// Close releases the open page handle, if any. The document itself belongs
// to the caller.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentPage != nil {
		_ = r.currentPage.Close()
		r.currentPage = nil
	}
}
