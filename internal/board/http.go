// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package board

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	"github.com/lehoangminh/folio/internal/platform/middleware"
	requestutil "github.com/lehoangminh/folio/internal/platform/request"
	"github.com/lehoangminh/folio/internal/platform/respond"
	"github.com/lehoangminh/folio/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the board endpoints on the given router.
//
// # Routes
//   - GET    /        — public board grouped by position (optional ?position=)
//   - GET    /all     — full roster including inactive (editor)
//   - GET    /{id}    — member detail (editor)
//   - POST   /        — add member (editor)
//   - PATCH  /{id}    — edit member (editor)
//   - DELETE /{id}    — deactivate member (admin)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.ListGrouped)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Get("/all", handler.ListAll)
		protected.Get("/{id}", handler.Get)
		protected.Post("/", handler.Create)
		protected.Patch("/{id}", handler.Update)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Delete("/{id}", handler.Delete)
	})
}

// ListGrouped handles GET /. A position query parameter narrows the result
// to that group.
func (handler *Handler) ListGrouped(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.service.ListGrouped(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if raw := request.URL.Query().Get(FieldPosition); raw != "" {
		position := Position(raw)
		if !position.Valid() {
			respond.Error(writer, request, apperr.ValidationError("Unknown board position"))
			return
		}

		filtered := []*Group{}
		for _, group := range groups {
			if group.Position == position {
				filtered = append(filtered, group)
			}
		}
		groups = filtered
	}

	respond.OK(writer, groups)
}

// ListAll handles GET /all.
func (handler *Handler) ListAll(writer http.ResponseWriter, request *http.Request) {
	members, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if members == nil {
		members = []*Member{}
	}

	respond.OK(writer, members)
}

// Get handles GET /{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	member, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, member)
}

// Create handles POST /.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input Member
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Create(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, &input)
}

// Update handles PATCH /{id}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	var input Member
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), &input)
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
