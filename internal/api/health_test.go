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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/api"
)

type readiness struct {
	Data struct {
		Status string `json:"status"`
		Checks []struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	} `json:"data"`
}

func probe(t *testing.T, handler http.HandlerFunc) (int, readiness) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body readiness
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all_dependencies_up", func(t *testing.T) {
		_, ready := api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: healthy, CheckSessions: healthy}, logger)

		code, body := probe(t, ready)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", body.Data.Status)
		assert.Len(t, body.Data.Checks, 2)
	})

	t.Run("redis_down", func(t *testing.T) {
		_, ready := api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: healthy, CheckSessions: down}, logger)

		code, body := probe(t, ready)

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "degraded", body.Data.Status)
		require.Len(t, body.Data.Checks, 2)
		assert.Equal(t, "redis", body.Data.Checks[1].Name)
		assert.False(t, body.Data.Checks[1].OK)
		assert.Equal(t, "connection refused", body.Data.Checks[1].Error)
	})

	t.Run("checks_receive_a_deadline", func(t *testing.T) {
		var hadDeadline bool
		check := func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		}
		_, ready := api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: check}, logger)

		code, _ := probe(t, ready)

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, hadDeadline)
	})
}

func TestLiveness(t *testing.T) {
	live, _ := api.NewHealthHandlers(api.HealthDependencies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	live(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}
