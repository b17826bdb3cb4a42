// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

/*
Package journal manages the catalogue of published journal issues.

A journal record carries the bibliographic metadata (edition, volume, number,
year, ISSN) and, once an issue PDF has been uploaded, the public URL of the
stored document. The URL is only ever set after the bytes are durably stored —
a record with an empty URL is a valid "metadata only" issue.
*/
package journal

import "time"

// Edition is the closed half-year publication window enumeration.
type Edition string

const (
	// EditionJanuaryJune covers the first half-year issue.
	EditionJanuaryJune Edition = "January-June"
	// EditionJulyDecember covers the second half-year issue.
	EditionJulyDecember Edition = "July-December"
)

// Valid reports whether the edition is one of the closed set.
func (e Edition) Valid() bool {
	return e == EditionJanuaryJune || e == EditionJulyDecember
}

// Editions lists all valid edition values.
func Editions() []Edition {
	return []Edition{EditionJanuaryJune, EditionJulyDecember}
}

// Journal represents one published issue.
type Journal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Edition     Edition `json:"edition"`
	Volume      string  `json:"volume"`
	Number      string  `json:"number"`
	Year        string  `json:"year"`
	ISSN        string  `json:"issn,omitempty"`

	// PDF delivery fields. PDFURL is empty until the upload completes.
	PDFURL      string `json:"pdf_url"`
	PDFFileName string `json:"pdf_file_name,omitempty"`
	PDFSize     int64  `json:"pdf_size,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`

	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPDF reports whether an issue document has been uploaded.
func (j *Journal) HasPDF() bool {
	return j.PDFURL != ""
}

// Filter holds the parameters for a paginated journal search.
type Filter struct {
	// Query matches against title, volume, number, year, description, and ISSN.
	Query string
	// Year restricts results to one publication year.
	Year string
	// Edition restricts results to one half-year window.
	Edition Edition
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldEdition     = "edition"
	FieldVolume      = "volume"
	FieldNumber      = "number"
	FieldYear        = "year"
	FieldISSN        = "issn"
	FieldPDF         = "pdf"
)
