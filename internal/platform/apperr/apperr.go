// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for the panel.

It provides a rich error type that bridges the gap between low-level Identity/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a closed [Kind], a machine-readable Code and a
    user-friendly message.
  - Kind: The failure taxonomy (auth, authorization, data access, validation...).
    Callers switch on Kind and Code, never on message text.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Taxonomy

// Kind classifies an [AppError] into one of a closed set of failure families.
type Kind int

const (
	// KindInternal is an unexpected server-side failure.
	KindInternal Kind = iota

	// KindAuth covers credential problems: bad password, email in use, weak password.
	// Recovered locally and shown to the user, never fatal.
	KindAuth

	// KindAuthorization covers role mismatches and pending accounts.
	KindAuthorization

	// KindDataAccess covers store-level failures (permission denied, missing index,
	// unreachable collaborator). Surfaced with a manual-retry affordance.
	KindDataAccess

	// KindValidation blocks a submission before any store write.
	KindValidation

	// KindNotFound reports a missing resource.
	KindNotFound

	// KindConflict reports a uniqueness violation.
	KindConflict
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindDataAccess:
		return "data_access"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// # Machine-readable Codes

const (
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeEmailInUse        = "EMAIL_IN_USE"
	CodeWeakPassword      = "WEAK_PASSWORD"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodePendingApproval   = "PENDING_APPROVAL"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeDataAccess        = "DATA_ACCESS_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// AppError is the canonical error type for the panel API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Kind is the failure family.
	Kind Kind `json:"-"`
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "WEAK_PASSWORD").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// Redirect is the view the client should navigate to, if any.
	Redirect string `json:"redirect,omitempty"`
	// SignedOut reports that the server terminated the caller's session.
	SignedOut bool `json:"signed_out,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Identity Failures

// InvalidCredential creates a 401 [AppError] for a rejected email/password pair.
func InvalidCredential() *AppError {
	return &AppError{
		Kind:       KindAuth,
		Code:       CodeInvalidCredential,
		Message:    "Email ou mot de passe incorrect.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// EmailInUse creates a 409 [AppError] for a sign-up on a registered address.
func EmailInUse() *AppError {
	return &AppError{
		Kind:       KindAuth,
		Code:       CodeEmailInUse,
		Message:    "Cette adresse e-mail est déjà utilisée.",
		HTTPStatus: http.StatusConflict,
	}
}

// WeakPassword creates a 422 [AppError] for a password below the minimum length.
func WeakPassword(minLength int) *AppError {
	return &AppError{
		Kind:       KindAuth,
		Code:       CodeWeakPassword,
		Message:    fmt.Sprintf("Le mot de passe doit contenir au moins %d caractères.", minLength),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Unauthenticated creates a 401 [AppError] that sends the client to a login view.
func Unauthenticated(redirect string) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		Code:       CodeUnauthenticated,
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
		Redirect:   redirect,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Article") // Returns "Article not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Denied creates a 403 [AppError] carrying a guard code and an optional sign-out flag.
func Denied(code, msg string, signedOut bool) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
		SignedOut:  signedOut,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Kind:       KindConflict,
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// DataAccess creates a 503 [AppError] for a failing store or identity collaborator.
// The cause is stored for logging but is never sent to the client.
func DataAccess(msg string, cause error) *AppError {
	return &AppError{
		Kind:       KindDataAccess,
		Code:       CodeDataAccess,
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for a disabled feature.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Code:       CodeUnavailable,
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the [Kind] of err, or [KindInternal] for foreign errors.
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Kind
	}
	return KindInternal
}

// HasCode reports whether err carries the given machine-readable code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
