// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package api

import (
	"context"

	"github.com/lehoangminh/folio/internal/journal"
	"github.com/lehoangminh/folio/internal/pdfproxy"
)

// JournalRecords adapts the journal service to the narrow projection the PDF
// proxy consumes.
type JournalRecords struct {
	journals *journal.Service
}

// NewJournalRecords creates the [pdfproxy.RecordSource] adapter.
func NewJournalRecords(journals *journal.Service) *JournalRecords {
	return &JournalRecords{journals: journals}
}

// Delivery returns the delivery projection for a journal ID.
func (r *JournalRecords) Delivery(ctx context.Context, id string) (*pdfproxy.Delivery, error) {
	record, err := r.journals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &pdfproxy.Delivery{
		ID:     record.ID,
		Title:  record.Title,
		PDFURL: record.PDFURL,
	}, nil
}

// IncrementViewCount bumps the journal's view counter by one.
func (r *JournalRecords) IncrementViewCount(ctx context.Context, id string) error {
	return r.journals.IncrementViewCount(ctx, id)
}
