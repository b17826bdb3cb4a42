// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

/*
Package viewer implements the server-side document viewing pipeline.

It covers three concerns:

  - Fetch: a tiered strategy that obtains a journal document, preferring the
    cheap proxy-embed path and falling back to parsing the raw bytes.
  - Render: drawing individual pages to images at a zoom scale, with
    fullscreen fit-to-container math and supersedable render requests.
  - Session: the state machine a reading session moves through
    (closed → loading → ready/error), including scroll-lock stewardship.

The PDF engine (MuPDF via go-fitz) sits behind the [Document] and [Page]
interfaces so the rest of the pipeline, and every test, is engine-agnostic.
*/
package viewer

import (
	"image"
)

// Dimensions holds a width/height pair in points (1/72 inch).
type Dimensions struct {
	Width  float64
	Height float64
}

// Document is a parsed, page-addressable journal document.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Page opens the page with the given 1-based number.
	Page(number int) (Page, error)

	// Close releases the document and all engine resources.
	Close() error
}

// Page is a single openable page of a [Document].
type Page interface {
	// Dimensions returns the intrinsic page size in points.
	Dimensions() Dimensions

	// Render draws the page at the given zoom scale. A scale of 1.0 maps one
	// point to one pixel.
	Render(scale float64) (image.Image, error)

	// Close releases the page handle.
	Close() error
}

// Parser turns raw PDF bytes into a [Document].
type Parser interface {
	Parse(data []byte) (Document, error)
}
