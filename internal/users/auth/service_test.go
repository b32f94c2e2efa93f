// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/auth"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// # Fakes

type memoryAccounts struct {
	mu       sync.Mutex
	byEmail  map[string]*auth.Account
	profiles map[string]*profile.Profile
	lookups  int
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byEmail: map[string]*auth.Account{}, profiles: map[string]*profile.Profile{}}
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if account, ok := m.byEmail[email]; ok {
		return account, nil
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryAccounts) Create(_ context.Context, account *auth.Account, initial *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[account.Email]; ok {
		return apperr.Conflict("duplicate")
	}
	m.byEmail[account.Email] = account
	m.profiles[initial.UID] = initial
	return nil
}

func (m *memoryAccounts) seed(t *testing.T, id, email, password string) {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	m.byEmail[email] = &auth.Account{ID: id, Email: email, PasswordHash: hash}
}

type memorySessions struct {
	mu     sync.Mutex
	byHash map[string]*auth.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{byHash: map[string]*auth.Session{}}
}

func (m *memorySessions) Create(_ context.Context, session *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byHash[session.TokenHash] = session
	return nil
}

func (m *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.byHash[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (m *memorySessions) IsActive(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.byHash {
		if session.ID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memorySessions) Revoke(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, session := range m.byHash {
		if session.ID == sessionID {
			delete(m.byHash, hash)
		}
	}
	return nil
}

func (m *memorySessions) RevokeAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, session := range m.byHash {
		if session.UserID == userID {
			delete(m.byHash, hash)
		}
	}
	return nil
}

func (m *memorySessions) count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, session := range m.byHash {
		if session.UserID == userID {
			n++
		}
	}
	return n
}

type recordingBus struct {
	mu        sync.Mutex
	published []auth.Event
}

func (b *recordingBus) Publish(_ context.Context, event auth.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, _ string) (*auth.Subscription, error) {
	return auth.NewSubscription(ctx, make(chan []byte), nil), nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, sessionID, _ string, _ time.Duration) (string, error) {
	return "token:" + userID + ":" + sessionID, nil
}

// stubResolver resolves every known uid to a stored role; unknown uids have no profile.
type stubResolver struct {
	roles map[string]profile.Role
}

func (r stubResolver) Resolve(_ context.Context, uid string) (access.Resolution, error) {
	role, ok := r.roles[uid]
	if !ok {
		return access.Resolution{Authenticated: true, UserID: uid}, nil
	}
	return access.Resolution{Authenticated: true, UserID: uid, ProfileFound: true, Role: role}, nil
}

type fixture struct {
	accounts *memoryAccounts
	sessions *memorySessions
	bus      *recordingBus
	service  *auth.Service
}

func newFixture(roles map[string]profile.Role) *fixture {
	f := &fixture{accounts: newMemoryAccounts(), sessions: newMemorySessions(), bus: &recordingBus{}}
	f.service = auth.NewService(f.accounts, f.sessions, f.bus, stubTokens{}, stubResolver{roles: roles}, metrics.Nop{})
	return f
}

// # Sign-up

func TestSignUp(t *testing.T) {
	t.Run("creates_pending_profile_and_session", func(t *testing.T) {
		f := newFixture(nil)

		session, err := f.service.SignUp(context.Background(), auth.SignUpInput{
			Email:        "  Nouvelle.Plume@SafeCampus.app ",
			Password:     "motdepasse",
			Confirmation: "motdepasse",
		})
		require.NoError(t, err)

		assert.Equal(t, profile.RolePending, session.Role)
		assert.Equal(t, "nouvelle.plume@safecampus.app", session.Account.Email)
		assert.NotEmpty(t, session.RefreshToken)

		created := f.accounts.profiles[session.Account.ID]
		require.NotNil(t, created)
		assert.Equal(t, profile.RolePending, created.Role)
		assert.Equal(t, 1, f.sessions.count(session.Account.ID))
	})

	t.Run("mismatch_fails_before_store", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.service.SignUp(context.Background(), auth.SignUpInput{
			Email: "a@safecampus.app", Password: "abcdef", Confirmation: "abcdeg",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, auth.MessagePasswordMismatch, apperr.As(err).Details[0].Message)
		assert.Zero(t, f.accounts.lookups)
	})

	t.Run("weak_password", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.service.SignUp(context.Background(), auth.SignUpInput{
			Email: "a@safecampus.app", Password: "abc", Confirmation: "abc",
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeWeakPassword))
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	})

	t.Run("password_length_counts_characters", func(t *testing.T) {
		f := newFixture(nil)

		// Five accented characters take ten bytes but stay below the minimum.
		_, err := f.service.SignUp(context.Background(), auth.SignUpInput{
			Email: "a@safecampus.app", Password: "ééééé", Confirmation: "ééééé",
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeWeakPassword))
		assert.Zero(t, f.accounts.lookups)

		_, err = f.service.SignUp(context.Background(), auth.SignUpInput{
			Email: "b@safecampus.app", Password: "éééééé", Confirmation: "éééééé",
		})
		assert.NoError(t, err)
	})

	t.Run("email_in_use_case_insensitive", func(t *testing.T) {
		f := newFixture(nil)
		f.accounts.seed(t, "u1", "redaction@safecampus.app", "secret1")

		_, err := f.service.SignUp(context.Background(), auth.SignUpInput{
			Email: "REDACTION@safecampus.app", Password: "secret2", Confirmation: "secret2",
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeEmailInUse))
	})
}

// # Sign-in

func TestSignIn(t *testing.T) {
	roles := map[string]profile.Role{
		"author-1":  profile.RoleAuthor,
		"admin-1":   profile.RoleAdmin,
		"pending-1": profile.RolePending,
	}

	newSeeded := func(t *testing.T) *fixture {
		f := newFixture(roles)
		f.accounts.seed(t, "author-1", "author@safecampus.app", "secret1")
		f.accounts.seed(t, "admin-1", "admin@safecampus.app", "secret1")
		f.accounts.seed(t, "pending-1", "pending@safecampus.app", "secret1")
		f.accounts.seed(t, "orphan-1", "orphan@safecampus.app", "secret1")
		return f
	}

	t.Run("author_and_admin_pass_the_gate", func(t *testing.T) {
		f := newSeeded(t)

		for email, want := range map[string]profile.Role{
			"author@safecampus.app": profile.RoleAuthor,
			"Admin@SafeCampus.app":  profile.RoleAdmin,
		} {
			session, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: email, Password: "secret1"})
			require.NoError(t, err, email)
			assert.Equal(t, want, session.Role)
		}
	})

	t.Run("pending_is_signed_out", func(t *testing.T) {
		f := newSeeded(t)

		_, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "pending@safecampus.app", Password: "secret1"})
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodePendingApproval, appError.Code)
		assert.Equal(t, access.MessagePending, appError.Message)
		assert.True(t, appError.SignedOut)
		assert.Zero(t, f.sessions.count("pending-1"))
	})

	t.Run("missing_profile_gets_generic_denial", func(t *testing.T) {
		f := newSeeded(t)

		_, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "orphan@safecampus.app", Password: "secret1"})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, access.MessageDenied, appError.Message)
		assert.Zero(t, f.sessions.count("orphan-1"))
	})

	t.Run("bad_credentials", func(t *testing.T) {
		f := newSeeded(t)

		_, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "author@safecampus.app", Password: "wrong!"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredential))

		_, err = f.service.SignIn(context.Background(), auth.SignInInput{Email: "nobody@safecampus.app", Password: "secret1"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredential))
	})
}

// # Sessions

func TestSignOut_Idempotent(t *testing.T) {
	f := newFixture(map[string]profile.Role{"author-1": profile.RoleAuthor})
	f.accounts.seed(t, "author-1", "author@safecampus.app", "secret1")

	session, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "author@safecampus.app", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.service.SignOut(context.Background(), session.RefreshToken))
	require.NoError(t, f.service.SignOut(context.Background(), session.RefreshToken))

	active, err := f.service.IsSessionActive(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRefresh_Rotates(t *testing.T) {
	f := newFixture(map[string]profile.Role{"author-1": profile.RoleAuthor})
	f.accounts.seed(t, "author-1", "author@safecampus.app", "secret1")

	first, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "author@safecampus.app", Password: "secret1"})
	require.NoError(t, err)

	second, err := f.service.Refresh(context.Background(), first.RefreshToken, auth.ClientInfo{})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.service.Refresh(context.Background(), first.RefreshToken, auth.ClientInfo{})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestForceSignOut(t *testing.T) {
	f := newFixture(map[string]profile.Role{"author-1": profile.RoleAuthor})
	f.accounts.seed(t, "author-1", "author@safecampus.app", "secret1")

	for range 2 {
		_, err := f.service.SignIn(context.Background(), auth.SignInInput{Email: "author@safecampus.app", Password: "secret1"})
		require.NoError(t, err)
	}
	require.Equal(t, 2, f.sessions.count("author-1"))

	require.NoError(t, f.service.ForceSignOut(context.Background(), "author-1", access.MessagePending))

	assert.Zero(t, f.sessions.count("author-1"))
	require.Len(t, f.bus.published, 1)
	assert.Equal(t, auth.EventSignedOut, f.bus.published[0].Type)
	assert.Equal(t, access.MessagePending, f.bus.published[0].Message)
}

func TestNotifyProfileChanged(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.service.NotifyProfileChanged(context.Background(), "author-1"))

	require.Len(t, f.bus.published, 1)
	assert.Equal(t, auth.EventProfileChanged, f.bus.published[0].Type)
	assert.Equal(t, "author-1", f.bus.published[0].UserID)
}
