// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

func resolved(role profile.Role) access.Resolution {
	p := &profile.Profile{UID: "u1", Role: role}
	return access.Resolution{Authenticated: true, UserID: "u1", ProfileFound: true, Role: role, Profile: p}
}

var noProfile = access.Resolution{Authenticated: true, UserID: "u1"}

/*
TestGuard_Table covers every capability against every class of caller.
*/
func TestGuard_Table(t *testing.T) {
	tests := []struct {
		name       string
		capability access.Capability
		resolution access.Resolution
		outcome    access.Outcome
		message    string
	}{
		{"viewer_unauthenticated", access.ViewerAuthenticated, access.Unauthenticated, access.Redirect, ""},
		{"viewer_pending", access.ViewerAuthenticated, resolved(profile.RolePending), access.Allow, ""},
		{"viewer_no_profile", access.ViewerAuthenticated, noProfile, access.Allow, ""},
		{"viewer_admin", access.ViewerAuthenticated, resolved(profile.RoleAdmin), access.Allow, ""},

		{"author_unauthenticated", access.AuthorOrAdmin, access.Unauthenticated, access.Redirect, ""},
		{"author_author", access.AuthorOrAdmin, resolved(profile.RoleAuthor), access.Allow, ""},
		{"author_admin", access.AuthorOrAdmin, resolved(profile.RoleAdmin), access.Allow, ""},
		{"author_pending", access.AuthorOrAdmin, resolved(profile.RolePending), access.DenyWithSignOut, "votre compte est en attente de validation"},
		{"author_no_profile", access.AuthorOrAdmin, noProfile, access.DenyWithSignOut, "accès refusé"},

		{"admin_unauthenticated", access.AdminOnly, access.Unauthenticated, access.Redirect, ""},
		{"admin_admin", access.AdminOnly, resolved(profile.RoleAdmin), access.Allow, ""},
		{"admin_author", access.AdminOnly, resolved(profile.RoleAuthor), access.Deny, "Accès refusé. Réservé aux admin."},
		{"admin_pending", access.AdminOnly, resolved(profile.RolePending), access.Deny, "Accès refusé. Réservé aux admin."},
		{"admin_no_profile", access.AdminOnly, noProfile, access.Deny, "Accès refusé. Réservé aux admin."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := access.Guard(tt.capability, tt.resolution)
			assert.Equal(t, tt.outcome, decision.Outcome)
			assert.Equal(t, tt.message, decision.Message)
			if tt.outcome == access.Redirect {
				assert.Equal(t, "/auth/login", decision.Target)
			}
		})
	}
}

/*
TestGuard_Deterministic evaluates the same inputs repeatedly.
*/
func TestGuard_Deterministic(t *testing.T) {
	inputs := []access.Resolution{access.Unauthenticated, noProfile, resolved(profile.RolePending), resolved(profile.RoleAuthor), resolved(profile.RoleAdmin)}
	capabilities := []access.Capability{access.ViewerAuthenticated, access.AuthorOrAdmin, access.AdminOnly}

	for _, capability := range capabilities {
		for _, resolution := range inputs {
			first := access.Guard(capability, resolution)
			for range 10 {
				assert.Equal(t, first, access.Guard(capability, resolution))
			}
		}
	}
}

/*
TestGuard_AuthorOrAdminNeverAllowsWithoutElevatedRole holds for pending, absent and
corrupt roles alike.
*/
func TestGuard_AuthorOrAdminNeverAllowsWithoutElevatedRole(t *testing.T) {
	for _, stored := range []string{"pending", "", "root", "ADMIN", "author "} {
		role := profile.NormalizeRole(stored)
		decision := access.Guard(access.AuthorOrAdmin, resolved(role))
		assert.False(t, decision.Allowed(), stored)
		assert.True(t, decision.SignsOut(), stored)
	}
	assert.False(t, access.Guard(access.AuthorOrAdmin, noProfile).Allowed())
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, access.Guard(access.AdminOnly, resolved(profile.RoleAdmin)).Err())

	redirect := apperr.As(access.Guard(access.AdminOnly, access.Unauthenticated).Err())
	assert.Equal(t, 401, redirect.HTTPStatus)
	assert.Equal(t, "/auth/login", redirect.Redirect)

	pending := apperr.As(access.Guard(access.AuthorOrAdmin, resolved(profile.RolePending)).Err())
	assert.Equal(t, 403, pending.HTTPStatus)
	assert.Equal(t, apperr.CodePendingApproval, pending.Code)
	assert.True(t, pending.SignedOut)

	denied := apperr.As(access.Guard(access.AdminOnly, resolved(profile.RoleAuthor)).Err())
	assert.Equal(t, apperr.CodeForbidden, denied.Code)
	assert.False(t, denied.SignedOut)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "author_or_admin", access.AuthorOrAdmin.String())
	assert.Equal(t, "deny_with_sign_out", access.DenyWithSignOut.String())
}
