// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/middleware"
	requestutil "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/request"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/respond"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the identity HTTP endpoints.
type Handler struct {
	authService *Service
	resolver    RoleResolver
	heartbeat   time.Duration
}

// NewHandler constructs a new [Handler]. The resolver builds the session snapshots
// sent on event streams.
func NewHandler(service *Service, resolver RoleResolver) *Handler {
	return &Handler{authService: service, resolver: resolver, heartbeat: constants.SessionEventHeartbeat}
}

// Routes returns a [chi.Router] configured with identity routes.
//
// # Endpoints
//   - POST /signup          : Registers a pending applicant and opens a session.
//   - POST /signin          : Authenticates, then applies the login success gate.
//   - POST /refresh         : Rotates the refresh session.
//   - POST /signout         : Revokes the current session (idempotent).
//   - GET  /session/events  : Server-Sent Events for the caller's session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/refresh", handler.refresh)
	router.Post("/signout", handler.signOut)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/session/events", handler.sessionEvents)
	})

	return router
}

// # Request Payloads

type signUpRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        *Account `json:"user"`
	Role        string   `json:"role,omitempty"`
	Redirect    string   `json:"redirect"`
}

/*
SignUp registers a new applicant.

POST /api/v1/auth/signup

Response:
  - 201: sessionResponse (role "pending")
  - 400: VALIDATION_ERROR (mismatched confirmation, bad email)
  - 409: EMAIL_IN_USE
  - 422: WEAK_PASSWORD
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Email:        input.Email,
		Password:     input.Password,
		Confirmation: input.PasswordConfirmation,
		Client:       clientInfo(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.SetRefreshCookie(writer, session.RefreshToken, int(RefreshTokenTTL/time.Second))
	respond.Created(writer, toSessionResponse(session))
}

/*
SignIn authenticates a user and establishes a session.

POST /api/v1/auth/signin

Response:
  - 200: sessionResponse
  - 401: INVALID_CREDENTIAL
  - 403: PENDING_APPROVAL or ACCESS_DENIED, with "signed_out": true
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), SignInInput{
		Email:    input.Email,
		Password: input.Password,
		Client:   clientInfo(request),
	})
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.SignedOut {
			middleware.ClearRefreshCookie(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	middleware.SetRefreshCookie(writer, session.RefreshToken, int(RefreshTokenTTL/time.Second))
	respond.OK(writer, toSessionResponse(session))
}

/*
SignOut terminates the current session.

POST /api/v1/auth/signout

Response:
  - 204: No Content, also when no session was open
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		if err := handler.authService.SignOut(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	middleware.ClearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Response:
  - 200: access token credentials
  - 401: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthenticated(constants.LoginView))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value, clientInfo(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.SetRefreshCookie(writer, session.RefreshToken, int(RefreshTokenTTL/time.Second))
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(AccessTokenTTL / time.Second),
	})
}

/*
SessionEvents streams the caller's session state.

GET /api/v1/auth/session/events

Description: The current state is sent first, then one event per change. Role
changes are re-resolved before they are forwarded. The stream ends after a sign-out
event or when the client disconnects; the subscription is released in both cases.
*/
func (handler *Handler) sessionEvents(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	userID := ctxutil.GetUserID(ctx)

	subscription, err := handler.authService.Subscribe(ctx, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer subscription.Close()

	snapshot, err := handler.snapshot(ctx, EventSession, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	controller := http.NewResponseController(writer)
	// Streams outlive the server's write timeout.
	_ = controller.SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)

	if err := writeEvent(writer, controller, snapshot); err != nil {
		return
	}

	ticker := time.NewTicker(handler.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(writer, ": ping\n\n"); err != nil {
				return
			}
			if err := controller.Flush(); err != nil {
				return
			}

		case event, ok := <-subscription.Events():
			if !ok {
				return
			}

			payload := sessionSnapshot{Type: event.Type, UserID: event.UserID, Message: event.Message, At: event.At}
			if event.Type == EventProfileChanged {
				payload, err = handler.snapshot(ctx, EventProfileChanged, userID)
				if err != nil {
					ctxutil.GetLogger(ctx).WarnContext(ctx, "session_snapshot_failed", slog.Any("error", err))
					continue
				}
			}

			if err := writeEvent(writer, controller, payload); err != nil {
				return
			}
			if event.Type == EventSignedOut {
				return
			}
		}
	}
}

// sessionSnapshot is the data line of an event on the stream.
type sessionSnapshot struct {
	Type          EventType `json:"type"`
	UserID        string    `json:"user_id"`
	Authenticated bool      `json:"authenticated"`
	ProfileFound  bool      `json:"profile_found"`
	Role          string    `json:"role,omitempty"`
	CanAuthor     bool      `json:"can_author"`
	CanAdminister bool      `json:"can_administer"`
	Message       string    `json:"message,omitempty"`
	At            time.Time `json:"at"`
}

func (handler *Handler) snapshot(ctx context.Context, eventType EventType, userID string) (sessionSnapshot, error) {
	resolution, err := handler.resolver.Resolve(ctx, userID)
	if err != nil {
		return sessionSnapshot{}, err
	}
	return sessionSnapshot{
		Type:          eventType,
		UserID:        userID,
		Authenticated: resolution.Authenticated,
		ProfileFound:  resolution.ProfileFound,
		Role:          string(resolution.Role),
		CanAuthor:     access.Guard(access.AuthorOrAdmin, resolution).Allowed(),
		CanAdminister: access.Guard(access.AdminOnly, resolution).Allowed(),
		At:            time.Now().UTC(),
	}, nil
}

func writeEvent(writer http.ResponseWriter, controller *http.ResponseController, snapshot sessionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", snapshot.Type, data); err != nil {
		return err
	}
	return controller.Flush()
}

// # Helpers

func toSessionResponse(session *LoginSession) sessionResponse {
	redirect := constants.DashboardView
	return sessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenTTL / time.Second),
		User:        session.Account,
		Role:        string(session.Role),
		Redirect:    redirect,
	}
}

func clientInfo(request *http.Request) ClientInfo {
	return ClientInfo{UserAgent: request.UserAgent(), IPAddress: middleware.RealIP(request)}
}
