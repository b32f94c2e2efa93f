// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/request"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/respond"
)

// Handler exposes cover upload grants.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the media router. The caller mounts it behind the author guard.
//
// # Endpoints
//   - POST /covers : Presigned PUT URL for a new cover image.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/covers", handler.createCoverUpload)
	return router
}

type coverRequest struct {
	ContentType string `json:"content_type"`
}

func (handler *Handler) createCoverUpload(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input coverRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := handler.service.CreateCoverUpload(request.Context(), authorID, input.ContentType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, upload)
}
