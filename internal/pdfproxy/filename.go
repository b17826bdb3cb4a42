// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package pdfproxy

import (
	"regexp"

	"github.com/lehoangminh/folio/internal/platform/constants"
)

var (
	// disallowedChars matches everything outside letters, digits, whitespace,
	// hyphen, underscore, and dot.
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_.]`)
	// whitespaceRun matches one or more consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeFilename converts a journal title into a safe download filename.
//
// # Pipeline
//
// 1. Strip every character outside [A-Za-z0-9 \-_.].
// 2. Collapse each whitespace run into a single underscore.
// 3. Truncate to at most 50 characters.
//
// The extension is appended by the caller and does not count toward the limit.
func SanitizeFilename(title string) string {
	result := disallowedChars.ReplaceAllString(title, "")
	result = whitespaceRun.ReplaceAllString(result, "_")

	if len(result) > constants.PDFFilenameMaxLength {
		result = result[:constants.PDFFilenameMaxLength]
	}

	return result
}
