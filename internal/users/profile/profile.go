// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile owns the per-user role record that governs access to the panel.

A profile is distinct from the identity credential: the account proves who the caller
is, the profile says what they may do. Profiles are created as pending at sign-up and
only the moderation engine changes them afterwards.

# Roles

	pending  initial state, no authoring rights
	author   may write and publish articles
	admin    may moderate other profiles (provisioned out of band)

Any stored value outside this set is read back as pending.
*/
package profile

import (
	"time"

	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/pointer"
)

// # Roles

// Role is the authorization level recorded on a profile.
type Role string

const (
	RolePending Role = "pending"
	RoleAuthor  Role = "author"
	RoleAdmin   Role = "admin"
)

// NormalizeRole maps a stored value onto the closed role set.
// Unknown or empty values become [RolePending], never author or admin.
func NormalizeRole(stored string) Role {
	switch Role(stored) {
	case RoleAuthor:
		return RoleAuthor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePending
	}
}

// CanAuthor reports whether the role may write articles.
func (r Role) CanAuthor() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// CanModerate reports whether the role may approve, revoke or reject other profiles.
func (r Role) CanModerate() bool {
	return r == RoleAdmin
}

// # Domain Entities

// Profile is the role record of one user, keyed by the account id.
type Profile struct {
	UID       string    `json:"uid"`
	Email     *string   `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalized returns a copy whose role has gone through [NormalizeRole].
func (p Profile) Normalized() Profile {
	p.Role = NormalizeRole(string(p.Role))
	return p
}

// NewPending builds the profile written at sign-up.
func NewPending(uid, email string) *Profile {
	return &Profile{
		UID:       uid,
		Email:     pointer.NonZero(email),
		Role:      RolePending,
		CreatedAt: time.Now().UTC(),
	}
}
