// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// # Account Data Access

// AccountRepository defines the data access contract for credentials.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr NotFound or DataAccess
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account registered under a case-folded address.

		Parameters:
		  - ctx: context.Context
		  - email: string (already normalised)

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr NotFound or DataAccess
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	/*
		Create persists the credential together with its initial pending profile.

		Both rows are written in one transaction: a credential never exists without
		the profile that the role resolver reads.

		Parameters:
		  - ctx: context.Context
		  - account: *Account
		  - initial: *profile.Profile

		Returns:
		  - error: apperr Conflict if the email is taken
	*/
	Create(ctx context.Context, account *Account, initial *profile.Profile) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new session for an authenticated sign-in.
	*/
	Create(ctx context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session matching a refresh token hash.

		Returns:
		  - error: apperr NotFound if expired, revoked or unknown
	*/
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	/*
		IsActive reports whether the session id is still live. Access tokens carry the
		session id; a revoked session invalidates its tokens immediately.
	*/
	IsActive(ctx context.Context, sessionID string) (bool, error)

	/*
		Revoke terminates one session. Revoking an unknown session is not an error.
	*/
	Revoke(ctx context.Context, sessionID string) error

	/*
		RevokeAll terminates every session belonging to userID.
	*/
	RevokeAll(ctx context.Context, userID string) error
}

// # Session Events

// EventBus carries session events to the views a principal has open.
type EventBus interface {

	/*
		Publish sends an event on the principal's channel. Delivery is best effort:
		a view that is not listening re-resolves on its next request anyway.
	*/
	Publish(ctx context.Context, event Event) error

	/*
		Subscribe opens the principal's channel. The returned [Subscription] is bound
		to ctx and must be released with Close.
	*/
	Subscribe(ctx context.Context, userID string) (*Subscription, error)
}
