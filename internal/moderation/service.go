// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"log/slog"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/ctxutil"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// Notifier tells a principal's open views that their profile changed.
type Notifier interface {
	NotifyProfileChanged(ctx context.Context, userID string) error
}

// Service runs moderation transitions against a guarded profile repository.
type Service struct {
	profiles profile.Repository
	notifier Notifier
	recorder metrics.Recorder
}

// NewService constructs a new moderation [Service].
//
// profiles should be a [profile.GuardedRepository] so that the admin check is
// repeated at the store boundary.
func NewService(profiles profile.Repository, notifier Notifier, recorder metrics.Recorder) *Service {
	return &Service{profiles: profiles, notifier: notifier, recorder: recorder}
}

// # Roster

/*
Roster reads the pending applicants and the authors.

Returns:
  - *Roster: Normalised profiles with counts
  - error: Forbidden for non-admin callers, DataAccess on store failures
*/
func (service *Service) Roster(ctx context.Context) (*Roster, error) {
	pending, err := service.profiles.ListByRole(ctx, profile.RolePending)
	if err != nil {
		return nil, err
	}

	authors, err := service.profiles.ListByRole(ctx, profile.RoleAuthor)
	if err != nil {
		return nil, err
	}

	return newRoster(pending, authors), nil
}

// # Transitions

// Approve promotes a pending applicant to author.
func (service *Service) Approve(ctx context.Context, uid string) (*Result, error) {
	return service.transition(ctx, ActionApprove, uid, func() (bool, error) {
		return service.profiles.SetRole(ctx, uid, profile.RolePending, profile.RoleAuthor)
	})
}

// Revoke demotes an author back to pending.
func (service *Service) Revoke(ctx context.Context, uid string) (*Result, error) {
	return service.transition(ctx, ActionRevoke, uid, func() (bool, error) {
		return service.profiles.SetRole(ctx, uid, profile.RoleAuthor, profile.RolePending)
	})
}

// Reject deletes a pending applicant's profile. Their articles, if any, are kept.
func (service *Service) Reject(ctx context.Context, uid string) (*Result, error) {
	return service.transition(ctx, ActionReject, uid, func() (bool, error) {
		return service.profiles.DeletePending(ctx, uid)
	})
}

/*
transition applies one conditional write and re-reads the roster.

Description: A write that matched nothing is reported with Changed false and no
error. A successful write notifies the target so their open views re-resolve.
*/
func (service *Service) transition(ctx context.Context, action Action, uid string, write func() (bool, error)) (*Result, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldUID, uid).Err(); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(ctx)

	changed, err := write()
	if err != nil {
		service.recorder.RecordModeration(string(action), outcomeFailed)
		return nil, err
	}

	if changed {
		service.recorder.RecordModeration(string(action), outcomeChanged)
		logger.InfoContext(ctx, action.Event(),
			slog.String("target_uid", uid),
			slog.String("admin_uid", ctxutil.GetUserID(ctx)),
		)

		if err := service.notifier.NotifyProfileChanged(ctx, uid); err != nil {
			logger.WarnContext(ctx, "profile_change_notify_failed",
				slog.String("target_uid", uid),
				slog.Any("error", err),
			)
		}
	} else {
		service.recorder.RecordModeration(string(action), outcomeNoop)
		logger.InfoContext(ctx, "moderation_noop",
			slog.String("action", string(action)),
			slog.String("target_uid", uid),
		)
	}

	roster, err := service.Roster(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{Changed: changed, Roster: roster}, nil
}
