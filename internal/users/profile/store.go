// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import "context"

// # Profile Data Access

// Reader is the read-only slice of [Repository] used by the role resolver.
type Reader interface {

	/*
		Get returns the profile keyed by uid.

		Parameters:
		  - ctx: context.Context
		  - uid: string

		Returns:
		  - *Profile: Stored entity, role not yet normalised
		  - error: apperr NotFound when absent, DataAccess on store failures
	*/
	Get(ctx context.Context, uid string) (*Profile, error)
}

// Repository defines the data access contract for user profiles.
type Repository interface {
	Reader

	/*
		Create persists a brand-new profile.

		Returns:
		  - error: apperr Conflict if a profile already exists for the uid
	*/
	Create(ctx context.Context, profile *Profile) error

	/*
		SetRole moves a profile from one role to another, only if its current role is from.

		Parameters:
		  - ctx: context.Context
		  - uid: string
		  - from: Role (expected current role)
		  - to: Role

		Returns:
		  - bool: true if the row changed, false if the current role did not match
		  - error: apperr NotFound when the profile does not exist
	*/
	SetRole(ctx context.Context, uid string, from, to Role) (bool, error)

	/*
		DeletePending removes a profile, only if it is still pending.

		Returns:
		  - bool: true if the row was deleted, false if the profile is not pending
		  - error: apperr NotFound when the profile does not exist
	*/
	DeletePending(ctx context.Context, uid string) (bool, error)

	/*
		ListByRole returns every profile whose stored role equals role, newest first.
	*/
	ListByRole(ctx context.Context, role Role) ([]*Profile, error)
}
