// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
)

// AdminOnlyMessage is shown when a non-admin reaches a moderation operation.
const AdminOnlyMessage = "Accès refusé. Réservé aux admin."

// GuardedRepository enforces the profile access rules at the store boundary.
//
// # Rules
//
//   - Get: the caller's own profile, or any profile for an admin.
//   - Create: only the caller's own profile, and only as pending.
//   - SetRole, DeletePending, ListByRole: admins only.
//
// The caller is the session principal found in the context; the caller's role is
// re-read from the wrapped repository on every call.
type GuardedRepository struct {
	inner Repository
}

// NewGuardedRepository wraps inner with store-side role checks.
func NewGuardedRepository(inner Repository) *GuardedRepository {
	return &GuardedRepository{inner: inner}
}

var _ Repository = (*GuardedRepository)(nil)

// Get returns the profile if the caller may read it.
func (repository *GuardedRepository) Get(ctx context.Context, uid string) (*Profile, error) {
	callerID := ctxutil.GetUserID(ctx)
	if callerID == "" {
		return nil, apperr.Unauthenticated(constants.LoginView)
	}
	if callerID != uid {
		if err := repository.requireAdmin(ctx, callerID); err != nil {
			return nil, err
		}
	}
	return repository.inner.Get(ctx, uid)
}

// Create lets a principal write their own pending profile.
func (repository *GuardedRepository) Create(ctx context.Context, profile *Profile) error {
	callerID := ctxutil.GetUserID(ctx)
	if callerID == "" {
		return apperr.Unauthenticated(constants.LoginView)
	}
	if callerID != profile.UID || profile.Role != RolePending {
		return apperr.Forbidden("A profile can only be created by its owner, as pending")
	}
	return repository.inner.Create(ctx, profile)
}

// SetRole changes a role after confirming the caller is an admin.
func (repository *GuardedRepository) SetRole(ctx context.Context, uid string, from, to Role) (bool, error) {
	if err := repository.requireCallerAdmin(ctx); err != nil {
		return false, err
	}
	return repository.inner.SetRole(ctx, uid, from, to)
}

// DeletePending removes a pending profile after confirming the caller is an admin.
func (repository *GuardedRepository) DeletePending(ctx context.Context, uid string) (bool, error) {
	if err := repository.requireCallerAdmin(ctx); err != nil {
		return false, err
	}
	return repository.inner.DeletePending(ctx, uid)
}

// ListByRole returns a roster after confirming the caller is an admin.
func (repository *GuardedRepository) ListByRole(ctx context.Context, role Role) ([]*Profile, error) {
	if err := repository.requireCallerAdmin(ctx); err != nil {
		return nil, err
	}
	return repository.inner.ListByRole(ctx, role)
}

func (repository *GuardedRepository) requireCallerAdmin(ctx context.Context) error {
	callerID := ctxutil.GetUserID(ctx)
	if callerID == "" {
		return apperr.Unauthenticated(constants.LoginView)
	}
	return repository.requireAdmin(ctx, callerID)
}

func (repository *GuardedRepository) requireAdmin(ctx context.Context, callerID string) error {
	caller, err := repository.inner.Get(ctx, callerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Denied(apperr.CodeForbidden, AdminOnlyMessage, false)
		}
		return err
	}
	if !NormalizeRole(string(caller.Role)).CanModerate() {
		return apperr.Denied(apperr.CodeForbidden, AdminOnlyMessage, false)
	}
	return nil
}
