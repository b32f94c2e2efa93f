// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements SessionRepository using Redis.
//
// # Key Layout
//
//	auth:session:<token hash>     JSON session, expires with the refresh token
//	auth:sid:<session id>         token hash, lets access tokens check liveness
//	auth:user_sessions:<user id>  set of session ids, used by RevokeAll
type RedisSessionRepository struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client redis.UniversalClient, timeout time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, timeout: timeout}
}

func sessionKey(tokenHash string) string   { return constants.RedisPrefixSession + tokenHash }
func sessionIDKey(sessionID string) string { return constants.RedisPrefixSessionID + sessionID }
func userSessionsKey(userID string) string { return constants.RedisPrefixUserSessions + userID }

/*
Create stores the session under its token hash and indexes it by id and by user.

Returns:
  - error: DataAccess on Redis failures
*/
func (repository *RedisSessionRepository) Create(ctx context.Context, session *Session) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_already_expired")
	}

	_, err = repository.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.TokenHash), payload, ttl)
		pipe.Set(ctx, sessionIDKey(session.ID), session.TokenHash, ttl)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
		pipe.Expire(ctx, userSessionsKey(session.UserID), RefreshTokenTTL)
		return nil
	})
	if err != nil {
		return apperr.DataAccess("Unable to open a session, please retry", err)
	}

	return nil
}

/*
FindByTokenHash returns the live session for a refresh token hash.

Returns:
  - error: apperr.NotFound if the token is absent, revoked or expired
*/
func (repository *RedisSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	payload, err := repository.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, apperr.DataAccess("Unable to read the session, please retry", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return session, nil
}

// IsActive reports whether the session id has not been revoked or expired.
func (repository *RedisSessionRepository) IsActive(ctx context.Context, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	count, err := repository.client.Exists(ctx, sessionIDKey(sessionID)).Result()
	if err != nil {
		return false, apperr.DataAccess("Unable to check the session, please retry", err)
	}

	return count > 0, nil
}

// Revoke deletes one session. Unknown sessions are ignored. The id stays in the
// user's set until RevokeAll or the set's expiry; stale members resolve to nothing.
func (repository *RedisSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	tokenHash, err := repository.client.Get(ctx, sessionIDKey(sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return apperr.DataAccess("Unable to close the session, please retry", err)
	}

	keys := []string{sessionIDKey(sessionID)}
	if tokenHash != "" {
		keys = append(keys, sessionKey(tokenHash))
	}

	if err := repository.client.Del(ctx, keys...).Err(); err != nil {
		return apperr.DataAccess("Unable to close the session, please retry", err)
	}

	return nil
}

// RevokeAll deletes every session of userID.
func (repository *RedisSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	sessionIDs, err := repository.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return apperr.DataAccess("Unable to close the sessions, please retry", err)
	}

	keys := []string{userSessionsKey(userID)}
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionIDKey(sessionID))

		tokenHash, err := repository.client.Get(ctx, sessionIDKey(sessionID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return apperr.DataAccess("Unable to close the sessions, please retry", err)
		}
		if tokenHash != "" {
			keys = append(keys, sessionKey(tokenHash))
		}
	}

	if err := repository.client.Del(ctx, keys...).Err(); err != nil {
		return apperr.DataAccess("Unable to close the sessions, please retry", err)
	}

	return nil
}
