// Package auth decides which callers may change tours and ratings.
package auth

import (
	"explore_tours/pkg/contextx"
)

type Action string

const (
	ActionRatingWrite Action = "rating:write"
	ActionTourWrite   Action = "tour:write"
)

// RoleCSR is held by customer service representatives.
const RoleCSR = "CSR"

type Authorizer interface {
	IsAuthorized(action Action, subject contextx.Subject) bool
}

// AllowAll authorizes everything. It is used when no token secret is configured.
type AllowAll struct{}

func (AllowAll) IsAuthorized(Action, contextx.Subject) bool {
	return true
}

// RolePolicy grants an action to any subject holding one of its roles.
// Actions missing from the policy are denied.
type RolePolicy map[Action][]string

func DefaultPolicy() RolePolicy {
	return RolePolicy{
		ActionRatingWrite: {RoleCSR},
		ActionTourWrite:   {RoleCSR},
	}
}

func (p RolePolicy) IsAuthorized(action Action, subject contextx.Subject) bool {
	for _, role := range p[action] {
		if subject.HasRole(role) {
			return true
		}
	}

	return false
}
