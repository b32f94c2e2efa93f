// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/request"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/respond"
)

// Handler exposes the admin roster and transitions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the moderation router. The caller mounts it behind the admin guard.
//
// # Endpoints
//   - GET    /              : Pending applicants and authors.
//   - POST   /{uid}/approve : pending -> author.
//   - POST   /{uid}/revoke  : author -> pending.
//   - DELETE /{uid}         : Rejects a pending applicant.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.roster)
	router.Post("/{uid}/approve", handler.apply(handler.service.Approve))
	router.Post("/{uid}/revoke", handler.apply(handler.service.Revoke))
	router.Delete("/{uid}", handler.apply(handler.service.Reject))

	return router
}

func (handler *Handler) roster(writer http.ResponseWriter, request *http.Request) {
	roster, err := handler.service.Roster(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roster)
}

func (handler *Handler) apply(transition func(context.Context, string) (*Result, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		result, err := transition(request.Context(), requestutil.Param(request, FieldUID))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, result)
	}
}
