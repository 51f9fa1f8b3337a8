// Package access decides whether an actor may perform an action.
package access

import (
	"errors"

	"vgt-backoffice/internal/core/domain"
)

// Action names an operation that is subject to authorization.
type Action string

const (
	ViewOwnProfile  Action = "viewOwnProfile"
	EditOwnProfile  Action = "editOwnProfile"
	ViewAnyProfile  Action = "viewAnyProfile"
	ViewUsers       Action = "viewUsers"
	MutateUser      Action = "mutateUser"
	MutateBranch    Action = "mutateBranch"
	MutateParty     Action = "mutateParty"
	DeactivateParty Action = "deactivateParty"
	BookConsignment Action = "bookConsignment"
	BookChallan     Action = "bookChallan"
)

var (
	// ErrUnauthorized means there is no usable identity: no actor, or an inactive one.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the actor is known but lacks the role for the action.
	ErrForbidden = errors.New("forbidden")
)

type rule func(actor *domain.Actor, target string) bool

var rules = map[Action]rule{
	ViewOwnProfile:  self,
	EditOwnProfile:  self,
	ViewAnyProfile:  adminOnly,
	ViewUsers:       adminOnly,
	MutateUser:      adminOnly,
	MutateBranch:    adminOnly,
	DeactivateParty: adminOnly,
	MutateParty:     anyActive,
	BookConsignment: anyActive,
	BookChallan:     anyActive,
}

func self(actor *domain.Actor, target string) bool {
	return target != "" && actor.ID == target
}

func adminOnly(actor *domain.Actor, _ string) bool {
	return actor.Role == domain.RoleAdmin
}

func anyActive(*domain.Actor, string) bool {
	return true
}

// Authorize returns nil when actor may perform action on target, otherwise
// ErrUnauthorized or ErrForbidden. target is the profile id for the
// profile actions and is ignored elsewhere. Unknown actions are forbidden.
func Authorize(actor *domain.Actor, action Action, target string) error {
	if actor == nil || actor.ID == "" || !actor.Active {
		return ErrUnauthorized
	}
	allow, ok := rules[action]
	if !ok || !allow(actor, target) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeProfileView allows actors to read their own profile and admins to read any.
func AuthorizeProfileView(actor *domain.Actor, target string) error {
	if err := Authorize(actor, ViewOwnProfile, target); !errors.Is(err, ErrForbidden) {
		return err
	}
	return Authorize(actor, ViewAnyProfile, target)
}
