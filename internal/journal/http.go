// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package journal

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	"github.com/lehoangminh/folio/internal/platform/constants"
	"github.com/lehoangminh/folio/internal/platform/middleware"
	requestutil "github.com/lehoangminh/folio/internal/platform/request"
	"github.com/lehoangminh/folio/internal/platform/respond"
	"github.com/lehoangminh/folio/internal/platform/sec"
	"github.com/lehoangminh/folio/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the journal endpoints on the given router.
//
// # Routes
//   - GET    /            — public paginated catalogue
//   - GET    /{id}        — public detail by UUID or slug
//   - POST   /            — create issue (editor, multipart)
//   - PATCH  /{id}        — update issue (editor, multipart)
//   - DELETE /{id}        — delete issue (admin)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.List)
	router.Get("/{id}", handler.Get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.Create)
		protected.Patch("/{id}", handler.Update)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Delete("/{id}", handler.Delete)
	})
}

// List handles GET / with optional q, year, and edition query filters.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query:   request.URL.Query().Get("q"),
		Year:    request.URL.Query().Get("year"),
		Edition: Edition(request.URL.Query().Get("edition")),
	}

	journals, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if journals == nil {
		journals = []*Journal{}
	}

	respond.Paginated(writer, journals, pagination.NewMeta(params.Page, params.Limit, total))
}

// Get handles GET /{id}, where id is a UUID or a slug.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	journal, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, journal)
}

// Create handles POST / as a multipart form: metadata fields plus an
// optional "pdf" file part.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	input, pdfData, pdfName, err := parseJournalForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Create(request.Context(), input, pdfData, pdfName); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

// Update handles PATCH /{id} with the same multipart shape as Create.
// A missing "pdf" part keeps the existing document.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	input, pdfData, pdfName, err := parseJournalForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input, pdfData, pdfName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// Delete handles DELETE /{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// parseJournalForm reads the multipart metadata fields and the optional PDF
// payload, enforcing the upload size cap.
func parseJournalForm(request *http.Request) (*Journal, []byte, string, error) {
	request.Body = http.MaxBytesReader(nil, request.Body, constants.MaxUploadBytes)

	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, "", apperr.ValidationError("Uploaded file exceeds the size limit")
		}
		return nil, nil, "", apperr.ValidationError("Invalid multipart form")
	}

	input := &Journal{
		Title:       request.FormValue(FieldTitle),
		Description: request.FormValue(FieldDescription),
		Edition:     Edition(request.FormValue(FieldEdition)),
		Volume:      request.FormValue(FieldVolume),
		Number:      request.FormValue(FieldNumber),
		Year:        request.FormValue(FieldYear),
		ISSN:        request.FormValue(FieldISSN),
	}

	file, header, err := request.FormFile(FieldPDF)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, "", nil
		}
		return nil, nil, "", apperr.ValidationError("Invalid PDF upload")
	}
	defer func(file multipart.File) { _ = file.Close() }(file)

	pdfData, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, "", apperr.Internal(err)
	}

	return input, pdfData, header.Filename, nil
}
