// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/api"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/article"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/dashboard"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/media"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/moderation"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/config"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/middleware"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/auth"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// # Fakes

// bearerVerifier accepts "Bearer <uid>" and treats the uid as the session id.
type bearerVerifier struct{}

func (bearerVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token == "invalid" {
		return nil, errors.New("bad signature")
	}
	return &sec.AuthClaims{UserID: token, SessionID: token}, nil
}

type liveSessions struct{}

func (liveSessions) IsSessionActive(context.Context, string) (bool, error) { return true, nil }

// rolesResolver resolves callers from a fixed role table.
type rolesResolver map[string]profile.Role

func (roles rolesResolver) Resolve(_ context.Context, uid string) (access.Resolution, error) {
	if uid == "" {
		return access.Resolution{}, nil
	}
	role, ok := roles[uid]
	if !ok {
		return access.Resolution{Authenticated: true, UserID: uid}, nil
	}
	return access.Resolution{
		Authenticated: true,
		UserID:        uid,
		ProfileFound:  true,
		Role:          role,
		Profile:       &profile.Profile{UID: uid, Role: role},
	}, nil
}

type signOuts struct {
	mu    sync.Mutex
	users []string
}

func (s *signOuts) ForceSignOut(_ context.Context, userID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, userID)
	return nil
}

// rosterProfiles serves a static roster and refuses writes.
type rosterProfiles struct {
	byRole map[profile.Role][]*profile.Profile
}

func (r rosterProfiles) Get(context.Context, string) (*profile.Profile, error) {
	return nil, apperr.NotFound("Profile")
}

func (r rosterProfiles) Create(context.Context, *profile.Profile) error {
	return errors.New("read only")
}

func (r rosterProfiles) SetRole(context.Context, string, profile.Role, profile.Role) (bool, error) {
	return false, errors.New("read only")
}

func (r rosterProfiles) DeletePending(context.Context, string) (bool, error) {
	return false, errors.New("read only")
}

func (r rosterProfiles) ListByRole(_ context.Context, role profile.Role) ([]*profile.Profile, error) {
	return r.byRole[role], nil
}

// # Fixture

type fixture struct {
	server   *api.Server
	signOuts *signOuts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roles := rolesResolver{
		"admin-1":   profile.RoleAdmin,
		"author-1":  profile.RoleAuthor,
		"pending-1": profile.RolePending,
	}
	outs := &signOuts{}

	profiles := rosterProfiles{byRole: map[profile.Role][]*profile.Profile{
		profile.RolePending: {{UID: "pending-1", Role: profile.RolePending}},
		profile.RoleAuthor:  {{UID: "author-1", Role: profile.RoleAuthor}},
	}}

	handlers := api.Handlers{
		Liveness:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		Readiness:  func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		Metrics:    http.NotFoundHandler(),
		Auth:       auth.NewHandler(nil, roles),
		Dashboard:  dashboard.NewHandler(nil),
		Articles:   article.NewHandler(nil),
		Media:      media.NewHandler(media.NewService(nil, "", "")),
		Moderation: moderation.NewHandler(moderation.NewService(profiles, nil, metrics.Nop{})),
	}

	server := api.NewServer(&config.Config{ServerPort: "0", Environment: "test"}, logger, api.Security{
		Verifier: bearerVerifier{},
		Sessions: liveSessions{},
		Guard:    middleware.Guard{Resolver: roles, SignOut: outs, Recorder: metrics.Nop{}},
	}, handlers)

	return &fixture{server: server, signOuts: outs}
}

func (f *fixture) do(method, path, uid string) *httptest.ResponseRecorder {
	return f.send(method, path, uid, "")
}

func (f *fixture) send(method, path, uid, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if uid != "" {
		request.Header.Set("Authorization", "Bearer "+uid)
	}
	recorder := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// # Tests

func TestServer_Probes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/ready", "").Code)
}

func TestServer_UnauthenticatedIsRedirectedToLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/articles", "/api/v1/admin/users"} {
		t.Run(path, func(t *testing.T) {
			recorder := f.do(http.MethodGet, path, "")

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "/auth/login", decodeError(t, recorder)["redirect"])
		})
	}
}

func TestServer_InvalidTokenIsRejected(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/api/v1/dashboard", "invalid")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServer_PendingAuthorIsSignedOutOnAuthoringRoutes(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/v1/articles", "/api/v1/media/covers"} {
		t.Run(path, func(t *testing.T) {
			method := http.MethodGet
			if path == "/api/v1/media/covers" {
				method = http.MethodPost
			}

			recorder := f.do(method, path, "pending-1")

			require.Equal(t, http.StatusForbidden, recorder.Code)
			body := decodeError(t, recorder)
			assert.Equal(t, true, body["signed_out"])
			assert.Equal(t, "votre compte est en attente de validation", body["error"])
		})
	}

	assert.Equal(t, []string{"pending-1", "pending-1"}, f.signOuts.users)
}

func TestServer_AuthorCannotReachAdminRoutes(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/api/v1/admin/users", "author-1")

	require.Equal(t, http.StatusForbidden, recorder.Code)
	body := decodeError(t, recorder)
	assert.Equal(t, "Accès refusé. Réservé aux admin.", body["error"])
	assert.Nil(t, body["signed_out"])
	assert.Empty(t, f.signOuts.users)
}

func TestServer_AdminReadsRoster(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/api/v1/admin/users", "admin-1")

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data moderation.Roster `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, moderation.Counts{Pending: 1, Authors: 1, Total: 2}, envelope.Data.Counts)
}

func TestServer_AuthorUploadsDisabled(t *testing.T) {
	f := newFixture(t)

	recorder := f.send(http.MethodPost, "/api/v1/media/covers", "author-1", `{"content_type":"image/png"}`)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
