// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package moderation moves author applicants through their lifecycle.

	pending --Approve--> author
	author  --Revoke---> pending
	pending --Reject---> (profile deleted)

Every transition is a conditional write. When the stored role no longer matches
the expected source role the call is a no-op that reports Changed false. Whatever
happened, the caller receives the freshly re-read roster.

Two admins acting on the same profile at the same time are not serialised: the
last conditional write that matches wins.
*/
package moderation

import (
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/slice"
)

// Action names a moderation transition.
type Action string

const (
	ActionApprove Action = "approve"
	ActionRevoke  Action = "revoke"
	ActionReject  Action = "reject"
)

// Event is the log message recorded when the action changes a profile.
func (a Action) Event() string {
	switch a {
	case ActionApprove:
		return "profile_approved"
	case ActionRevoke:
		return "profile_revoked"
	case ActionReject:
		return "profile_rejected"
	default:
		return "profile_changed"
	}
}

// Outcome labels used for metrics and logs.
const (
	outcomeChanged = "changed"
	outcomeNoop    = "noop"
	outcomeFailed  = "failed"
)

// FieldUID is the path parameter naming the target profile.
const FieldUID = "uid"

// # Roster

// Counts summarises a [Roster].
type Counts struct {
	Pending int `json:"pending"`
	Authors int `json:"authors"`
	Total   int `json:"total"`
}

// Roster is the admin view of applicants and authors, newest first.
type Roster struct {
	Pending []profile.Profile `json:"pending"`
	Authors []profile.Profile `json:"authors"`
	Counts  Counts            `json:"counts"`
}

// Result is returned by every transition.
type Result struct {
	// Changed is false when the profile was not in the expected source state.
	Changed bool    `json:"changed"`
	Roster  *Roster `json:"roster"`
}

func newRoster(pending, authors []*profile.Profile) *Roster {
	roster := &Roster{
		Pending: normalize(pending),
		Authors: normalize(authors),
	}
	roster.Counts = Counts{
		Pending: len(roster.Pending),
		Authors: len(roster.Authors),
		Total:   len(roster.Pending) + len(roster.Authors),
	}
	return roster
}

// normalize copies stored profiles with their roles mapped onto the closed set.
func normalize(stored []*profile.Profile) []profile.Profile {
	present := slice.Filter(stored, func(p *profile.Profile) bool { return p != nil })
	return slice.Map(present, (*profile.Profile).Normalized)
}
