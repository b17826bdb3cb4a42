// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/lehoangminh/folio/internal/pdfmeta"
	"github.com/lehoangminh/folio/internal/platform/validate"
	"github.com/lehoangminh/folio/internal/storage"
	"github.com/lehoangminh/folio/pkg/slug"
	"github.com/lehoangminh/folio/pkg/uuid"
)

type Service struct {
	repo    Repository
	objects storage.Store
	logger  *slog.Logger
}

func NewService(repo Repository, objects storage.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		objects: objects,
		logger:  logger,
	}
}

// inspect is swappable so tests can exercise the upload flow without
// crafting byte-exact PDF files.
var inspect = pdfmeta.Inspect

// # Reads

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Journal, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get resolves a journal by UUID or, failing that, by slug.
func (service *Service) Get(context context.Context, idOrSlug string) (*Journal, error) {
	if uuid.IsValid(idOrSlug) {
		return service.repo.Get(context, idOrSlug)
	}
	return service.repo.GetBySlug(context, idOrSlug)
}

// DocumentURL returns the stored PDF URL for a journal ID.
// Used by the viewer pipeline; an issue without a PDF reads as empty.
func (service *Service) DocumentURL(context context.Context, id string) (string, error) {
	j, err := service.repo.Get(context, id)
	if err != nil {
		return "", err
	}
	return j.PDFURL, nil
}

// IncrementViewCount bumps the issue's view counter.
func (service *Service) IncrementViewCount(context context.Context, id string) error {
	return service.repo.IncrementViewCount(context, id)
}

// # Writes

// Create registers a new issue, optionally with its PDF payload.
//
// # Two-Phase Upload
//
// The record is inserted first with an empty PDF URL, then the bytes are
// stored, then the record is updated with the public URL. A crash between
// the phases leaves a valid metadata-only record — never a URL pointing at
// bytes that were not durably stored.
func (service *Service) Create(context context.Context, input *Journal, pdfData []byte, pdfFileName string) error {
	if err := service.validateMetadata(input); err != nil {
		return err
	}
	if err := validatePayload(pdfData, pdfFileName); err != nil {
		return err
	}

	input.ID = uuid.New()
	input.Slug = makeSlug(input)
	input.PDFURL = ""
	input.PDFFileName = ""
	input.PDFSize = 0
	input.PageCount = 0
	input.ViewCount = 0

	// Phase 1: metadata record with no document reference.
	if err := service.repo.Create(context, input); err != nil {
		return err
	}

	service.logger.Info("journal_created",
		slog.String("journal_id", input.ID),
		slog.String("title", input.Title),
	)

	if len(pdfData) == 0 {
		return nil
	}

	// Phase 2: store the bytes and attach the reference.
	return service.attachPDF(context, input, pdfData, pdfFileName)
}

// Update edits an issue's metadata and optionally replaces its PDF.
func (service *Service) Update(context context.Context, id string, input *Journal, pdfData []byte, pdfFileName string) (*Journal, error) {
	if err := service.validateMetadata(input); err != nil {
		return nil, err
	}
	if err := validatePayload(pdfData, pdfFileName); err != nil {
		return nil, err
	}

	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	previousURL := existing.PDFURL

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Edition = input.Edition
	existing.Volume = input.Volume
	existing.Number = input.Number
	existing.Year = input.Year
	existing.ISSN = input.ISSN
	existing.Slug = makeSlug(existing)

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("journal_updated", slog.String("journal_id", existing.ID))

	if len(pdfData) == 0 {
		return existing, nil
	}

	if err := service.attachPDF(context, existing, pdfData, pdfFileName); err != nil {
		return nil, err
	}

	// The old object is unreferenced now; removal is best-effort.
	if previousURL != "" && previousURL != existing.PDFURL {
		service.deleteObjectByURL(context, existing.ID, previousURL)
	}

	return existing, nil
}

// Delete removes the record and, best-effort, its stored document.
func (service *Service) Delete(context context.Context, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("journal_deleted", slog.String("journal_id", id))

	if existing.PDFURL != "" {
		service.deleteObjectByURL(context, id, existing.PDFURL)
	}

	return nil
}

// # Internal Helpers

// attachPDF stores the payload under journals/<id>/<filename> and writes the
// resulting public URL back onto the record.
func (service *Service) attachPDF(context context.Context, j *Journal, pdfData []byte, pdfFileName string) error {
	info, err := inspect(pdfData)
	if err != nil {
		if errors.Is(err, pdfmeta.ErrNotPDF) {
			return validate.RequiredError(FieldPDF, "Uploaded file is not a PDF document")
		}
		return fmt.Errorf("journal: failed to inspect PDF: %w", err)
	}

	objectPath := fmt.Sprintf("journals/%s/%s", j.ID, path.Base(pdfFileName))

	if err := service.objects.Upload(context, objectPath, pdfData, "application/pdf"); err != nil {
		return fmt.Errorf("journal: failed to store PDF: %w", err)
	}

	j.PDFURL = service.objects.PublicURL(objectPath)
	j.PDFFileName = path.Base(pdfFileName)
	j.PDFSize = info.Size
	j.PageCount = info.PageCount

	if err := service.repo.Update(context, j); err != nil {
		return err
	}

	service.logger.Info("journal_pdf_attached",
		slog.String("journal_id", j.ID),
		slog.String("file", j.PDFFileName),
		slog.Int64("size", j.PDFSize),
		slog.Int("pages", j.PageCount),
	)

	return nil
}

// deleteObjectByURL best-effort removes a stored object referenced by URL.
func (service *Service) deleteObjectByURL(context context.Context, journalID, url string) {
	objectPath, ok := storage.ResolvePath(url)
	if !ok {
		service.logger.Warn("stale_pdf_url_unresolvable", slog.String("journal_id", journalID))
		return
	}

	if err := service.objects.Delete(context, objectPath); err != nil {
		service.logger.Warn("stale_pdf_delete_failed",
			slog.String("journal_id", journalID),
			slog.String("path", objectPath),
			slog.Any("error", err),
		)
	}
}

func (service *Service) validateMetadata(j *Journal) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, j.Title).MaxLen(FieldTitle, j.Title, 300).
		Required(FieldVolume, j.Volume).MaxLen(FieldVolume, j.Volume, 20).
		Required(FieldNumber, j.Number).MaxLen(FieldNumber, j.Number, 20).
		Year(FieldYear, j.Year).
		ISSN(FieldISSN, j.ISSN).
		OneOf(FieldEdition, string(j.Edition), string(EditionJanuaryJune), string(EditionJulyDecember)).
		MaxLen(FieldDescription, j.Description, 5000)

	return validator.Err()
}

// validatePayload rejects a payload without a filename and vice versa.
func validatePayload(pdfData []byte, pdfFileName string) error {
	if len(pdfData) > 0 && path.Base(pdfFileName) == "." {
		return validate.RequiredError(FieldPDF, "PDF filename is required")
	}
	return nil
}

// makeSlug derives a stable, human-readable slug from the issue metadata.
func makeSlug(j *Journal) string {
	return slug.From(fmt.Sprintf("%s vol %s no %s %s", j.Title, j.Volume, j.Number, j.Year))
}
