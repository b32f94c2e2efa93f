// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
)

/*
TestIdentityFailures_AreAuthKind verifies the identity reasons share the auth family.
*/
func TestIdentityFailures_AreAuthKind(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"invalid_credential", apperr.InvalidCredential(), apperr.CodeInvalidCredential, http.StatusUnauthorized},
		{"email_in_use", apperr.EmailInUse(), apperr.CodeEmailInUse, http.StatusConflict},
		{"weak_password", apperr.WeakPassword(6), apperr.CodeWeakPassword, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, apperr.KindAuth, tt.err.Kind)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}

	assert.Contains(t, apperr.WeakPassword(6).Message, "6 caractères")
}

/*
TestAs_TraversesWrappedChain checks that wrapped AppErrors are still discoverable.
*/
func TestAs_TraversesWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("article_service_create_failed: %w", apperr.NotFound("Article"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindNotFound, ae.Kind)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("plain")))
	assert.False(t, apperr.IsAppError(errors.New("plain")))
}

/*
TestDataAccess_KeepsCauseForLogging ensures the cause is reachable but not in the message.
*/
func TestDataAccess_KeepsCauseForLogging(t *testing.T) {
	cause := errors.New("pq: permission denied for table profile")
	err := apperr.DataAccess("Profile store unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "permission denied")
	assert.Equal(t, "data_access", err.Kind.String())
}
