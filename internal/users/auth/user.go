// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth is the identity backend of the panel.

It issues and validates email/password credentials, keeps refresh sessions in Redis,
signs short-lived access tokens and publishes session events to open views.

# Architecture

  - Service: sign-up, sign-in (with the login success gate), sign-out, refresh,
    forced sign-out and session event subscriptions.
  - Repositories: Postgres for credentials, Redis for sessions and events.
  - Handler: the /api/v1/auth JSON endpoints and the session event stream.

The account holds the credential only. What the caller may do lives on the profile.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// # Domain Entities

// Account is a registered email/password credential.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenHash string    `json:"token_hash"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Session Events

// EventType names a session event.
type EventType string

const (
	// EventSession is the snapshot sent first on every event stream.
	EventSession EventType = "session"

	// EventSignedOut reports that the principal's sessions were terminated.
	EventSignedOut EventType = "signed_out"

	// EventProfileChanged reports that the principal's role changed or the profile was removed.
	EventProfileChanged EventType = "profile_changed"
)

// Event is one message on a principal's session channel.
type Event struct {
	Type    EventType `json:"type"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// # Field Identifiers

const (
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldAccessToken          = "access_token"
	FieldTokenType            = "token_type"
	FieldExpiresIn            = "expires_in"
	FieldUser                 = "user"
	FieldRole                 = "role"
)

var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}
