// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT bound to a refresh session.
	GenerateAccessToken(userID, sessionID, email string, timeToLive time.Duration) (string, error)
}

// RoleResolver classifies a principal for the login success gate.
type RoleResolver interface {
	Resolve(ctx context.Context, sessionUserID string) (access.Resolution, error)
}

// Service implements the identity use cases.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	eventBus          EventBus
	tokenProvider     TokenProvider
	roleResolver      RoleResolver
	recorder          metrics.Recorder
}

// NewService constructs a new identity [Service] with necessary dependencies.
func NewService(
	accounts AccountRepository,
	sessions SessionRepository,
	events EventBus,
	tokens TokenProvider,
	resolver RoleResolver,
	recorder metrics.Recorder,
) *Service {
	return &Service{
		accountRepository: accounts,
		sessionRepository: sessions,
		eventBus:          events,
		tokenProvider:     tokens,
		roleResolver:      resolver,
		recorder:          recorder,
	}
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	SessionID             string
	Account               *Account
	Role                  profile.Role
}

// ClientInfo identifies the device opening a session.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// # Registration Flow

// SignUpInput holds the data required to register a new author applicant.
type SignUpInput struct {
	Email        string
	Password     string
	Confirmation string
	Client       ClientInfo
}

/*
SignUp registers a credential with a pending profile and opens a session.

Description: The confirmation check runs before any store access. The new profile is
pending, so the caller can reach the dashboard but not the article editor until an
admin approves them.

Returns:
  - *LoginSession: The opened session
  - err: Validation, WEAK_PASSWORD, EMAIL_IN_USE or DataAccess failures
*/
func (service *Service) SignUp(ctx context.Context, input SignUpInput) (*LoginSession, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Custom(FieldPasswordConfirmation, input.Password != input.Confirmation, MessagePasswordMismatch)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	strength := &validate.Validator{}
	if strength.MinLen(FieldPassword, input.Password, MinPasswordLength).HasErrors() {
		service.recorder.RecordIdentityFailure(apperr.CodeWeakPassword)
		return nil, apperr.WeakPassword(MinPasswordLength)
	}

	_, err := service.accountRepository.FindByEmail(ctx, email)
	switch {
	case err == nil:
		service.recorder.RecordIdentityFailure(apperr.CodeEmailInUse)
		return nil, apperr.EmailInUse()
	case apperr.KindOf(err) != apperr.KindNotFound:
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := service.accountRepository.Create(ctx, account, profile.NewPending(account.ID, email)); err != nil {
		// Lost a race against a concurrent sign-up on the same address.
		if apperr.KindOf(err) == apperr.KindConflict {
			service.recorder.RecordIdentityFailure(apperr.CodeEmailInUse)
			return nil, apperr.EmailInUse()
		}
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_registered", slog.String("user_id", account.ID))

	session, err := service.openSession(ctx, account, input.Client)
	if err != nil {
		return nil, err
	}
	session.Role = profile.RolePending

	return session, nil
}

// # Authentication Flow

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Email    string
	Password string
	Client   ClientInfo
}

/*
SignIn validates credentials, opens a session and applies the login success gate.

Description: A principal who is not an author or admin is signed out straight away
and receives the pending-specific or the generic denial.

Returns:
  - *LoginSession: The opened session
  - err: INVALID_CREDENTIAL, a sign-out denial or DataAccess failures
*/
func (service *Service) SignIn(ctx context.Context, input SignInInput) (*LoginSession, error) {
	account, err := service.accountRepository.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			service.recorder.RecordIdentityFailure(apperr.CodeInvalidCredential)
			return nil, apperr.InvalidCredential()
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.recorder.RecordIdentityFailure(apperr.CodeInvalidCredential)
		return nil, apperr.InvalidCredential()
	}

	session, err := service.openSession(ctx, account, input.Client)
	if err != nil {
		return nil, err
	}

	resolution, err := service.roleResolver.Resolve(ctx, account.ID)
	if err != nil {
		_ = service.sessionRepository.Revoke(ctx, session.SessionID)
		return nil, err
	}

	decision := access.Guard(access.AuthorOrAdmin, resolution)
	service.recorder.RecordGuardDecision(access.AuthorOrAdmin.String(), decision.Outcome.String())

	if !decision.Allowed() {
		if err := service.sessionRepository.Revoke(ctx, session.SessionID); err != nil {
			return nil, err
		}
		ctxutil.GetLogger(ctx).InfoContext(ctx, "sign_in_gate_denied",
			slog.String("user_id", account.ID),
			slog.String("code", decision.Code),
		)
		return nil, decision.Err()
	}

	session.Role = resolution.Role
	return session, nil
}

/*
SignOut revokes the session behind a refresh token.

Description: Idempotent. An unknown or already revoked token is a success.
*/
func (service *Service) SignOut(ctx context.Context, refreshToken string) error {
	session, err := service.sessionRepository.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if err := service.sessionRepository.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("auth_service_sign_out_failed: %w", err)
	}

	return nil
}

/*
ForceSignOut terminates every session of userID and tells open views about it.

Description: Used by the access guard when a principal must not keep a live session.
The event is best effort; revocation alone already invalidates every access token.
*/
func (service *Service) ForceSignOut(ctx context.Context, userID, reason string) error {
	if reason == "" {
		reason = MessageSignedOut
	}

	if err := service.sessionRepository.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("auth_service_force_sign_out_failed: %w", err)
	}

	if err := service.eventBus.Publish(ctx, Event{Type: EventSignedOut, UserID: userID, Message: reason}); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "session_event_publish_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	return nil
}

// NotifyProfileChanged tells the principal's open views to resolve their role again.
func (service *Service) NotifyProfileChanged(ctx context.Context, userID string) error {
	return service.eventBus.Publish(ctx, Event{Type: EventProfileChanged, UserID: userID})
}

// # Session Management

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse, and
issues a fresh pair of rotated tokens.
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*LoginSession, error) {
	session, err := service.sessionRepository.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	// Rotation: revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	account, err := service.accountRepository.FindByID(ctx, session.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.openSession(ctx, account, client)
}

// IsSessionActive reports whether an access token's session is still live.
func (service *Service) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	return service.sessionRepository.IsActive(ctx, sessionID)
}

// Subscribe opens the principal's session event channel.
func (service *Service) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	return service.eventBus.Subscribe(ctx, userID)
}

// openSession persists a refresh session and signs an access token bound to it.
func (service *Service) openSession(ctx context.Context, account *Account, client ClientInfo) (*LoginSession, error) {
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New(),
		UserID:    account.ID,
		Email:     account.Email,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		ExpiresAt: now.Add(RefreshTokenTTL),
		CreatedAt: now,
	}

	if err := service.sessionRepository.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(account.ID, session.ID, account.Email, AccessTokenTTL)
	if err != nil {
		_ = service.sessionRepository.Revoke(ctx, session.ID)
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		SessionID:             session.ID,
		Account:               account,
	}, nil
}
