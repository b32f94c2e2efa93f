// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides who may reach which part of the panel.

It has two halves:

  - [Resolver] turns a session user id into a [Resolution] with one profile read.
  - [Guard] is a pure function from a [Capability] and a [Resolution] to a [Decision].

Neither half caches. Every protected request resolves again, so approvals and
revocations take effect on the caller's very next request.
*/
package access

import (
	"context"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxkey"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// Resolution classifies the caller of one request.
type Resolution struct {
	// Authenticated is false when no session is present.
	Authenticated bool

	// UserID is the session's user id, empty when unauthenticated.
	UserID string

	// ProfileFound is false for a session whose profile does not exist.
	ProfileFound bool

	// Role is the normalised role, empty when no profile was found.
	Role profile.Role

	// Profile is the normalised profile, nil when none was found.
	Profile *profile.Profile
}

// Unauthenticated is the resolution of a request without a session.
var Unauthenticated = Resolution{}

// Resolver reads the caller's profile.
type Resolver struct {
	profiles profile.Reader
}

// NewResolver builds a Resolver on top of a profile reader.
func NewResolver(profiles profile.Reader) *Resolver {
	return &Resolver{profiles: profiles}
}

/*
Resolve classifies the session identified by sessionUserID.

An empty id yields [Unauthenticated] without touching the store. A missing profile
yields an authenticated resolution with ProfileFound false. Any other store failure
is returned as a DataAccess error and never as a permissive resolution.
*/
func (resolver *Resolver) Resolve(ctx context.Context, sessionUserID string) (Resolution, error) {
	if sessionUserID == "" {
		return Unauthenticated, nil
	}

	stored, err := resolver.profiles.Get(ctx, sessionUserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return Resolution{Authenticated: true, UserID: sessionUserID}, nil
		}
		if appError := apperr.As(err); appError != nil && appError.Kind == apperr.KindDataAccess {
			return Resolution{}, appError
		}
		return Resolution{}, apperr.DataAccess("Unable to load your profile, please retry", err)
	}

	normalized := stored.Normalized()
	return Resolution{
		Authenticated: true,
		UserID:        sessionUserID,
		ProfileFound:  true,
		Role:          normalized.Role,
		Profile:       &normalized,
	}, nil
}

// # Context Propagation

// WithResolution stores the resolution that admitted the request.
func WithResolution(ctx context.Context, resolution Resolution) context.Context {
	return context.WithValue(ctx, ctxkey.KeyResolution, resolution)
}

// FromContext returns the resolution stored by [WithResolution].
func FromContext(ctx context.Context) (Resolution, bool) {
	resolution, ok := ctx.Value(ctxkey.KeyResolution).(Resolution)
	return resolution, ok
}
