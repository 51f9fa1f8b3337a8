package access

import (
	"testing"

	"vgt-backoffice/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func actor(id string, role domain.Role) *domain.Actor {
	return &domain.Actor{ID: id, Role: role, Active: true}
}

func TestAuthorizeMatrix(t *testing.T) {
	admin := actor("a-1", domain.RoleAdmin)
	employee := actor("e-1", domain.RoleEmployee)
	agent := actor("g-1", domain.RoleAgent)

	cases := []struct {
		name   string
		actor  *domain.Actor
		action Action
		target string
		want   error
	}{
		{"admin views any profile", admin, ViewAnyProfile, "e-1", nil},
		{"employee views any profile", employee, ViewAnyProfile, "a-1", ErrForbidden},
		{"employee views own profile", employee, ViewOwnProfile, "e-1", nil},
		{"agent views other profile", agent, ViewOwnProfile, "e-1", ErrForbidden},
		{"own profile needs a target", employee, ViewOwnProfile, "", ErrForbidden},
		{"agent edits own profile", agent, EditOwnProfile, "g-1", nil},
		{"admin mutates user", admin, MutateUser, "e-1", nil},
		{"employee mutates user", employee, MutateUser, "g-1", ErrForbidden},
		{"agent mutates branch", agent, MutateBranch, "", ErrForbidden},
		{"admin mutates branch", admin, MutateBranch, "", nil},
		{"employee mutates party", employee, MutateParty, "", nil},
		{"agent mutates party", agent, MutateParty, "", nil},
		{"employee deactivates party", employee, DeactivateParty, "", ErrForbidden},
		{"admin deactivates party", admin, DeactivateParty, "", nil},
		{"agent books consignment", agent, BookConsignment, "", nil},
		{"employee books challan", employee, BookChallan, "", nil},
		{"employee lists users", employee, ViewUsers, "", ErrForbidden},
		{"unknown action", admin, Action("dropTables"), "", ErrForbidden},
		{"no actor", nil, BookChallan, "", ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.target)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthorizeInactiveActorIsUnauthenticated(t *testing.T) {
	admin := actor("a-1", domain.RoleAdmin)
	admin.Active = false

	for action := range rules {
		assert.ErrorIs(t, Authorize(admin, action, "a-1"), ErrUnauthorized, string(action))
	}
}

func TestAuthorizeProfileView(t *testing.T) {
	assert.NoError(t, AuthorizeProfileView(actor("e-1", domain.RoleEmployee), "e-1"))
	assert.ErrorIs(t, AuthorizeProfileView(actor("e-1", domain.RoleEmployee), "e-2"), ErrForbidden)
	assert.NoError(t, AuthorizeProfileView(actor("a-1", domain.RoleAdmin), "e-2"))
	assert.ErrorIs(t, AuthorizeProfileView(nil, "e-2"), ErrUnauthorized)
}
