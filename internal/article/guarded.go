// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// GuardedRepository enforces the article access rules at the store boundary.
//
// # Rules
//
//   - Create, Rewrite, Delete: the caller owns the article and their stored role can author.
//   - FindOwned, ListByAuthor: the caller reads their own articles, whatever their role.
//   - ListPublished: public.
//
// The caller is the session principal found in the context; their role is re-read from
// the profile store on every write.
type GuardedRepository struct {
	inner    Repository
	profiles profile.Reader
}

// NewGuardedRepository wraps inner with store-side ownership and role checks.
func NewGuardedRepository(inner Repository, profiles profile.Reader) *GuardedRepository {
	return &GuardedRepository{inner: inner, profiles: profiles}
}

var _ Repository = (*GuardedRepository)(nil)

// Create stores an article after confirming the caller may author it.
func (repository *GuardedRepository) Create(ctx context.Context, article *Article) error {
	if err := repository.requireAuthor(ctx, article.AuthorID); err != nil {
		return err
	}
	return repository.inner.Create(ctx, article)
}

// Rewrite replaces an article after confirming the caller may author it.
func (repository *GuardedRepository) Rewrite(ctx context.Context, article *Article) error {
	if err := repository.requireAuthor(ctx, article.AuthorID); err != nil {
		return err
	}
	return repository.inner.Rewrite(ctx, article)
}

// Delete removes an article after confirming the caller may author it.
func (repository *GuardedRepository) Delete(ctx context.Context, id, authorID string) error {
	if err := repository.requireAuthor(ctx, authorID); err != nil {
		return err
	}
	return repository.inner.Delete(ctx, id, authorID)
}

// FindOwned returns one of the caller's own articles.
func (repository *GuardedRepository) FindOwned(ctx context.Context, id, authorID string) (*Article, error) {
	if err := requireOwner(ctx, authorID); err != nil {
		return nil, err
	}
	return repository.inner.FindOwned(ctx, id, authorID)
}

// ListByAuthor returns the caller's own articles.
func (repository *GuardedRepository) ListByAuthor(ctx context.Context, authorID string) ([]*Article, error) {
	if err := requireOwner(ctx, authorID); err != nil {
		return nil, err
	}
	return repository.inner.ListByAuthor(ctx, authorID)
}

// ListPublished is not guarded.
func (repository *GuardedRepository) ListPublished(ctx context.Context) ([]*Article, error) {
	return repository.inner.ListPublished(ctx)
}

func requireOwner(ctx context.Context, authorID string) error {
	callerID := ctxutil.GetUserID(ctx)
	if callerID == "" {
		return apperr.Unauthenticated(constants.LoginView)
	}
	if callerID != authorID {
		return apperr.Denied(apperr.CodeAccessDenied, access.MessageDenied, false)
	}
	return nil
}

func (repository *GuardedRepository) requireAuthor(ctx context.Context, authorID string) error {
	if err := requireOwner(ctx, authorID); err != nil {
		return err
	}

	caller, err := repository.profiles.Get(ctx, authorID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Denied(apperr.CodeAccessDenied, access.MessageDenied, false)
		}
		return err
	}

	role := profile.NormalizeRole(string(caller.Role))
	switch {
	case role.CanAuthor():
		return nil
	case role == profile.RolePending:
		return apperr.Denied(apperr.CodePendingApproval, access.MessagePending, false)
	default:
		return apperr.Denied(apperr.CodeAccessDenied, access.MessageDenied, false)
	}
}
