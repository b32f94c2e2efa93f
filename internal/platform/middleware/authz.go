// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/respond"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
)

// # Contracts

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionChecker reports whether the session behind an access token is still live.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, sessionID string) (bool, error)
}

// RoleResolver classifies the caller of a request.
type RoleResolver interface {
	Resolve(ctx context.Context, sessionUserID string) (access.Resolution, error)
}

// SignOutEnforcer terminates every session of a principal.
type SignOutEnforcer interface {
	ForceSignOut(ctx context.Context, userID, reason string) error
}

// # Authentication

// eventStreamTokenParam carries the access token for EventSource clients, which cannot
// set an Authorization header. It is read on the session event route only.
const eventStreamTokenParam = "access_token"

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' (or ?access_token= on the session event route).
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Reject the token if its session has been revoked.
//  5. Inject [*sec.AuthClaims] and a user-scoped logger into the request context.
func Authenticate(verifier TokenVerifier, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, present, ok := bearerToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthenticated(constants.LoginView))
				return
			}

			// ── 4. Session Liveness ───────────────────────────────────────────
			active, err := sessions.IsSessionActive(request.Context(), claims.SessionID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if !active {
				respond.Error(writer, request, apperr.Unauthenticated(constants.LoginView))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerToken returns the raw token, whether any credential was presented, and
// whether it was well formed.
func bearerToken(request *http.Request) (token string, present, ok bool) {
	if authHeader := request.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return "", true, false
		}
		return parts[1], true, true
	}

	if isEventStream(request) {
		if token := request.URL.Query().Get(eventStreamTokenParam); token != "" {
			return token, true, true
		}
	}

	return "", false, false
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthenticated(constants.LoginView))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Capability Guards

// Guard bundles what [RequireCapability] needs to resolve and enforce decisions.
type Guard struct {
	Resolver RoleResolver
	SignOut  SignOutEnforcer
	Recorder metrics.Recorder
}

// RequireCapability resolves the caller's role and applies [access.Guard].
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies [RequireAuth].
//
// # Outcomes
//   - Allow: the resolution is stored in the context and the next handler runs.
//   - Redirect: 401 with the login view in the "redirect" field.
//   - Deny: 403 with the guard message.
//   - DenyWithSignOut: every session of the principal is revoked, the refresh cookie
//     is cleared, then 403 with the guard message and "signed_out": true.
func RequireCapability(guard Guard, capability access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			userID := ctxutil.GetUserID(ctx)

			resolution, err := guard.Resolver.Resolve(ctx, userID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			decision := access.Guard(capability, resolution)
			guard.Recorder.RecordGuardDecision(capability.String(), decision.Outcome.String())

			if decision.Allowed() {
				next.ServeHTTP(writer, request.WithContext(access.WithResolution(ctx, resolution)))
				return
			}

			logger := ctxutil.GetLogger(ctx)
			logger.InfoContext(ctx, "guard_denied",
				slog.String("capability", capability.String()),
				slog.String("outcome", decision.Outcome.String()),
				slog.String("code", decision.Code),
			)

			if decision.SignsOut() {
				if err := guard.SignOut.ForceSignOut(ctx, userID, decision.Message); err != nil {
					// The denial stands either way; a failed revocation is retried on the next request.
					logger.ErrorContext(ctx, "guard_sign_out_failed", slog.Any("error", err))
				}
				ClearRefreshCookie(writer)
			}

			respond.Error(writer, request, decision.Err())
		})
	}
}

// # Cookies

// SetRefreshCookie writes the refresh token cookie scoped to the auth endpoints.
func SetRefreshCookie(writer http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the refresh token cookie on the client.
func ClearRefreshCookie(writer http.ResponseWriter) {
	SetRefreshCookie(writer, "", -1)
}
