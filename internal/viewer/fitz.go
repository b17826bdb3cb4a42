// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"fmt"
	"image"

	fitz "github.com/gen2brain/go-fitz"
)

// baseDPI is the rendering density at scale 1.0 (PDF points per inch).
const baseDPI = 72.0

// FitzParser is the MuPDF-backed [Parser] used in production.
type FitzParser struct{}

// NewFitzParser returns the production parser.
func NewFitzParser() *FitzParser {
	return &FitzParser{}
}

// Parse opens a document from memory.
func (p *FitzParser) Parse(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to parse document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument adapts *fitz.Document to the [Document] interface.
type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Page(number int) (Page, error) {
	if number < 1 || number > d.doc.NumPage() {
		return nil, fmt.Errorf("viewer: page %d out of range (1-%d)", number, d.doc.NumPage())
	}

	// go-fitz uses 0-based page indexes.
	index := number - 1

	bounds, err := d.doc.Bound(index)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to read bounds of page %d: %w", number, err)
	}

	return &fitzPage{
		doc:   d.doc,
		index: index,
		size: Dimensions{
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		},
	}, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

// fitzPage adapts a single MuPDF page to the [Page] interface.
type fitzPage struct {
	doc   *fitz.Document
	index int
	size  Dimensions
}

func (p *fitzPage) Dimensions() Dimensions {
	return p.size
}

func (p *fitzPage) Render(scale float64) (image.Image, error) {
	img, err := p.doc.ImageDPI(p.index, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to render page %d: %w", p.index+1, err)
	}
	return img, nil
}

// Close is a no-op: go-fitz scopes resources to the document, not the page.
func (p *fitzPage) Close() error {
	return nil
}
