// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

// Package pdfmeta inspects uploaded PDF bytes without cgo.
//
// # Architecture
//
// The journal service runs this at upload time to reject non-PDF files early
// and to record the page count on the journal record. It deliberately uses a
// pure-Go parser so admin uploads never depend on the MuPDF runtime the
// viewer pipeline needs.
package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the payload does not start with the PDF magic bytes.
var ErrNotPDF = errors.New("pdfmeta: payload is not a PDF document")

// pdfMagic is the required file signature.
var pdfMagic = []byte("%PDF-")

// Info holds the metadata extracted from an uploaded document.
type Info struct {
	// PageCount is the number of pages in the document.
	PageCount int
	// Size is the payload size in bytes.
	Size int64
}

// Inspect validates the payload and extracts its metadata.
//
// # Flow
//  1. Magic-byte check (cheap rejection of mislabeled uploads).
//  2. Full parse to obtain the page count.
func Inspect(data []byte) (*Info, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdfmeta: failed to parse document: %w", err)
	}

	return &Info{
		PageCount: reader.NumPage(),
		Size:      int64(len(data)),
	}, nil
}
