// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard assembles the landing view of a signed-in principal.
package dashboard

import (
	"context"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/article"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/pointer"
)

// ArticleLister reads a principal's own articles.
type ArticleLister interface {
	ListMine(ctx context.Context, authorID string) ([]*article.Article, error)
}

// View is the dashboard payload.
type View struct {
	UserID  string           `json:"user_id"`
	Email   string           `json:"email"`
	Profile *profile.Profile `json:"profile"`
	Role    profile.Role     `json:"role,omitempty"`

	// CanAuthor and CanAdminister drive the "new article" and "administration" links.
	CanAuthor     bool `json:"can_author"`
	CanAdminister bool `json:"can_administer"`

	Articles []*article.Article `json:"articles"`
}

// Service builds dashboard views.
type Service struct {
	articles ArticleLister
}

// NewService constructs a new dashboard [Service].
func NewService(articles ArticleLister) *Service {
	return &Service{articles: articles}
}

// Load builds the view for an already resolved principal. email is the session's
// address and is used when the profile has none.
func (service *Service) Load(ctx context.Context, resolution access.Resolution, email string) (*View, error) {
	articles, err := service.articles.ListMine(ctx, resolution.UserID)
	if err != nil {
		return nil, err
	}

	view := &View{
		UserID:        resolution.UserID,
		Email:         email,
		Profile:       resolution.Profile,
		Role:          resolution.Role,
		CanAuthor:     access.Guard(access.AuthorOrAdmin, resolution).Allowed(),
		CanAdminister: access.Guard(access.AdminOnly, resolution).Allowed(),
		Articles:      articles,
	}
	if resolution.Profile != nil && view.Email == "" {
		view.Email = pointer.Val(resolution.Profile.Email)
	}

	return view, nil
}
