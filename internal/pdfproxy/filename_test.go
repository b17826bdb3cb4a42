// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package pdfproxy_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lehoangminh/folio/internal/pdfproxy"
)

/*
TestSanitizeFilename covers the strip, collapse, and truncate rules.
*/
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_title", "Annual Report", "Annual_Report"},
		{"special_chars_stripped", "My: Report #1", "My_Report_1"},
		{"kept_punctuation", "vol-12_no.3", "vol-12_no.3"},
		{"whitespace_run_collapsed", "A   B\t C", "A_B_C"},
		{"only_special_chars", "###@@@", ""},
		{"empty", "", ""},
		{"unicode_stripped", "Журнал Études", "_tudes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdfproxy.SanitizeFilename(tt.input))
		})
	}
}

/*
TestSanitizeFilename_Truncation verifies the 50-character cap.
*/
func TestSanitizeFilename_Truncation(t *testing.T) {
	long := strings.Repeat("a", 80)

	got := pdfproxy.SanitizeFilename(long)

	assert.Len(t, got, 50)
	assert.Equal(t, strings.Repeat("a", 50), got)
}

/*
TestSanitizeFilename_NeverExceedsCap runs a quick property sweep: no input,
however hostile, yields a result longer than 50 characters.
*/
func TestSanitizeFilename_NeverExceedsCap(t *testing.T) {
	inputs := []string{
		strings.Repeat("x y ", 100),
		strings.Repeat("#", 200) + strings.Repeat("a", 200),
		"Research Journal of Humanities and Social Sciences Volume Twelve Issue One",
	}

	for _, input := range inputs {
		got := pdfproxy.SanitizeFilename(input)
		assert.LessOrEqual(t, len(got), 50, "input %q", input)
	}
}
