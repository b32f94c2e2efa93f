// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
)

// # Capabilities

// Capability is a named access requirement, in increasing order of privilege.
type Capability int

const (
	// ViewerAuthenticated requires any session (dashboard, article editor shell).
	ViewerAuthenticated Capability = iota

	// AuthorOrAdmin requires the author or admin role (article writes, login success gate).
	AuthorOrAdmin

	// AdminOnly requires the admin role (moderation console).
	AdminOnly
)

// String returns the metric label of the capability.
func (c Capability) String() string {
	switch c {
	case ViewerAuthenticated:
		return "viewer_authenticated"
	case AuthorOrAdmin:
		return "author_or_admin"
	case AdminOnly:
		return "admin_only"
	default:
		return "unknown"
	}
}

// # Decisions

// Outcome is the kind of a [Decision].
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Deny
	DenyWithSignOut
)

// String returns the metric label of the outcome.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	default:
		return "deny_with_sign_out"
	}
}

// User-facing guard messages.
const (
	MessagePending   = "votre compte est en attente de validation"
	MessageDenied    = "accès refusé"
	MessageAdminOnly = profile.AdminOnlyMessage
)

// Decision is the result of [Guard].
type Decision struct {
	Outcome Outcome

	// Target is the view to redirect to, set for Redirect only.
	Target string

	// Code and Message describe a denial.
	Code    string
	Message string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// SignsOut reports whether the principal's sessions must be terminated before the
// message is shown.
func (d Decision) SignsOut() bool {
	return d.Outcome == DenyWithSignOut
}

// Err converts a non-Allow decision into the matching [apperr.AppError]. It returns
// nil for Allow.
func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case Redirect:
		return apperr.Unauthenticated(d.Target)
	default:
		return apperr.Denied(d.Code, d.Message, d.SignsOut())
	}
}

/*
Guard decides whether a resolved caller satisfies capability.

It is a pure function of its inputs: identical arguments always yield identical
decisions.

	capability           unauthenticated   admin   author   pending           no profile / other
	ViewerAuthenticated  Redirect          Allow   Allow    Allow             Allow
	AuthorOrAdmin        Redirect          Allow   Allow    DenyWithSignOut   DenyWithSignOut
	AdminOnly            Redirect          Allow   Deny     Deny              Deny
*/
func Guard(capability Capability, resolution Resolution) Decision {
	if !resolution.Authenticated {
		return Decision{Outcome: Redirect, Target: constants.LoginView}
	}

	switch capability {
	case ViewerAuthenticated:
		return Decision{Outcome: Allow}

	case AuthorOrAdmin:
		if resolution.ProfileFound && resolution.Role.CanAuthor() {
			return Decision{Outcome: Allow}
		}
		if resolution.ProfileFound && resolution.Role == profile.RolePending {
			return Decision{Outcome: DenyWithSignOut, Code: apperr.CodePendingApproval, Message: MessagePending}
		}
		return Decision{Outcome: DenyWithSignOut, Code: apperr.CodeAccessDenied, Message: MessageDenied}

	case AdminOnly:
		if resolution.ProfileFound && resolution.Role.CanModerate() {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Deny, Code: apperr.CodeForbidden, Message: MessageAdminOnly}
	}

	// Unknown capabilities never allow.
	return Decision{Outcome: Deny, Code: apperr.CodeForbidden, Message: MessageDenied}
}
