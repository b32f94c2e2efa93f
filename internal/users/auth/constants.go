// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Revocation does not wait for expiry: the session id in the token is checked on every request.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// MinPasswordLength is the shortest password accepted at sign-up.
	MinPasswordLength = 6
)

// # User-facing Messages

const (
	MessagePasswordMismatch = "Les mots de passe ne correspondent pas."
	MessageSignedOut        = "Votre session a été fermée."
)
