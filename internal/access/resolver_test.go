// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

type stubReader struct {
	profiles map[string]profile.Profile
	err      error
	calls    int
}

func (s *stubReader) Get(_ context.Context, uid string) (*profile.Profile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[uid]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	return &p, nil
}

func TestResolve_EmptySessionSkipsStore(t *testing.T) {
	reader := &stubReader{}
	resolution, err := access.NewResolver(reader).Resolve(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, resolution.Authenticated)
	assert.Zero(t, reader.calls)
}

func TestResolve_MissingProfile(t *testing.T) {
	resolution, err := access.NewResolver(&stubReader{}).Resolve(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, resolution.Authenticated)
	assert.False(t, resolution.ProfileFound)
	assert.Empty(t, resolution.Role)
	assert.Nil(t, resolution.Profile)
}

func TestResolve_NormalizesCorruptRole(t *testing.T) {
	reader := &stubReader{profiles: map[string]profile.Profile{"u1": {UID: "u1", Role: "owner"}}}
	resolution, err := access.NewResolver(reader).Resolve(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, resolution.ProfileFound)
	assert.Equal(t, profile.RolePending, resolution.Role)
	assert.Equal(t, profile.RolePending, resolution.Profile.Role)
}

func TestResolve_ReadsEveryTime(t *testing.T) {
	reader := &stubReader{profiles: map[string]profile.Profile{"u1": {UID: "u1", Role: profile.RolePending}}}
	resolver := access.NewResolver(reader)

	first, _ := resolver.Resolve(context.Background(), "u1")
	reader.profiles["u1"] = profile.Profile{UID: "u1", Role: profile.RoleAuthor}
	second, _ := resolver.Resolve(context.Background(), "u1")

	assert.Equal(t, profile.RolePending, first.Role)
	assert.Equal(t, profile.RoleAuthor, second.Role)
	assert.Equal(t, 2, reader.calls)
}

func TestResolve_StoreFailureIsDataAccess(t *testing.T) {
	resolver := access.NewResolver(&stubReader{err: errors.New("dial tcp: i/o timeout")})
	_, err := resolver.Resolve(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindDataAccess, apperr.KindOf(err))
}

func TestResolutionContext(t *testing.T) {
	_, ok := access.FromContext(context.Background())
	assert.False(t, ok)

	ctx := access.WithResolution(context.Background(), resolved(profile.RoleAuthor))
	got, ok := access.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, profile.RoleAuthor, got.Role)
}
