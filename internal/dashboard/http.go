// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	requestutil "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/request"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/respond"
)

// Handler serves the dashboard.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
ServeHTTP renders the caller's dashboard.

GET /api/v1/dashboard

Description: Must run behind the ViewerAuthenticated guard, which stores the
resolution this handler reads.
*/
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolution, ok := access.FromContext(request.Context())
	if !ok || !resolution.Authenticated {
		respond.Error(writer, request, apperr.Unauthenticated(constants.LoginView))
		return
	}

	view, err := handler.service.Load(request.Context(), resolution, claims.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}
