// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire panel.

It defines default timeouts, security settings and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Collaborators: The bounded deadline applied to every store and identity call.
  - Security: JWT issuers and cookie configuration.
  - Views: Client-side routes referenced by guard redirects.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "safecampus-panel"
	AppVersion = "0.1.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Session event streams clear this deadline per request.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Collaborators

const (
	// DefaultCollaboratorTimeout bounds every Profile Store, Article Store and Identity call.
	DefaultCollaboratorTimeout = 5 * time.Second

	// SessionEventHeartbeat is the keep-alive interval of the session event stream.
	SessionEventHeartbeat = 25 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "panel.safecampus.app"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath is the scoped path for the refresh token cookie.
	RefreshTokenCookiePath = "/api/v1/auth"

	// SessionEventsPath is the only route that streams. It skips the request timeout
	// and accepts the access token as a query parameter.
	SessionEventsPath = "/api/v1/auth/session/events"
)

// # Views

const (
	// LoginView is where unauthenticated callers are redirected.
	LoginView = "/auth/login"

	// DashboardView is the landing view after a successful sign-in.
	DashboardView = "/dashboard"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaContent = "content"
)

// # Redis Prefixes (Key Taxonomy)

const (
	RedisPrefixSession      = "auth:session:"
	RedisPrefixUserSessions = "auth:user_sessions:"
	RedisPrefixSessionID    = "auth:sid:"
	RedisPrefixEvents       = "auth:events:"
)
