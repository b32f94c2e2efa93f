// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/article"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/dashboard"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

type stubArticles struct {
	byAuthor map[string][]*article.Article
	err      error
}

func (s stubArticles) ListMine(_ context.Context, authorID string) ([]*article.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byAuthor[authorID], nil
}

func resolved(uid string, role profile.Role) access.Resolution {
	p := profile.Profile{UID: uid, Role: role}
	return access.Resolution{Authenticated: true, UserID: uid, ProfileFound: true, Role: role, Profile: &p}
}

func TestLoad(t *testing.T) {
	articles := stubArticles{byAuthor: map[string][]*article.Article{
		"admin-1": {{ID: "a2", Title: "Récent"}, {ID: "a1", Title: "Ancien"}},
	}}
	service := dashboard.NewService(articles)

	tests := []struct {
		name          string
		resolution    access.Resolution
		canAuthor     bool
		canAdminister bool
		articles      int
	}{
		{"admin", resolved("admin-1", profile.RoleAdmin), true, true, 2},
		{"author", resolved("author-1", profile.RoleAuthor), true, false, 0},
		{"pending", resolved("pending-1", profile.RolePending), false, false, 0},
		{"no_profile", access.Resolution{Authenticated: true, UserID: "ghost"}, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := service.Load(context.Background(), tt.resolution, "x@safecampus.app")
			require.NoError(t, err)

			assert.Equal(t, tt.canAuthor, view.CanAuthor)
			assert.Equal(t, tt.canAdminister, view.CanAdminister)
			assert.Len(t, view.Articles, tt.articles)
		})
	}
}

func TestLoad_StoreFailure(t *testing.T) {
	service := dashboard.NewService(stubArticles{err: apperr.DataAccess("down", errors.New("timeout"))})

	_, err := service.Load(context.Background(), resolved("author-1", profile.RoleAuthor), "")
	assert.Equal(t, apperr.KindDataAccess, apperr.KindOf(err))
}

func TestHandler(t *testing.T) {
	handler := dashboard.NewHandler(dashboard.NewService(stubArticles{}))

	t.Run("without_resolution", func(t *testing.T) {
		ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "author-1"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("resolved", func(t *testing.T) {
		email := "plume@safecampus.app"
		resolution := resolved("pending-1", profile.RolePending)
		resolution.Profile.Email = &email

		ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "pending-1"})
		ctx = access.WithResolution(ctx, resolution)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data dashboard.View `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, email, envelope.Data.Email)
		assert.Equal(t, profile.RolePending, envelope.Data.Role)
		assert.False(t, envelope.Data.CanAuthor)
	})
}
