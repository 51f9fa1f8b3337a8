package services

import (
	"context"
	"testing"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor    = &domain.Actor{ID: "u-admin", EmployeeCode: "ADM001", Role: domain.RoleAdmin, Active: true}
	employeeActor = &domain.Actor{ID: "u-emp", EmployeeCode: "EMP001", Role: domain.RoleEmployee, Active: true}
	firstPage     = &pagination.Params{Page: 1, Limit: 20}
)

func testBranches() *fakeBranchRepo {
	return newFakeBranchRepo(
		&models.Branch{Code: "MRG", Name: "Margao", Type: "branch", IsActive: true},
		&models.Branch{Code: "BOM", Name: "Mumbai Hub", Type: "hub", IsActive: true},
		&models.Branch{Code: "OLD", Name: "Closed Office", Type: "branch", IsActive: false},
	)
}

func testParties() *fakePartyRepo {
	return newFakePartyRepo(
		&models.Party{Code: "100001", Name: "Goa Traders", Type: "consignor", IsActive: true},
		&models.Party{Code: "100002", Name: "Mumbai Mart", Type: "consignee", IsActive: true},
		&models.Party{Code: "100003", Name: "Two Way Co", Type: "both", IsActive: true},
		&models.Party{Code: "100004", Name: "Accounts Ltd", Type: "billing", BranchCode: "MRG", IsActive: true},
		&models.Party{Code: "100005", Name: "Gone Pvt", Type: "consignor", IsActive: false},
	)
}

func TestPartyTypesFor(t *testing.T) {
	assert.Equal(t, []string{"consignor", "both"}, PartyTypesFor("consignor"))
	assert.Equal(t, []string{"consignee", "both"}, PartyTypesFor("Consignee"))
	assert.Equal(t, []string{"both"}, PartyTypesFor("both"))
	assert.Nil(t, PartyTypesFor("billing"))
	assert.Nil(t, PartyTypesFor(""))
}

func TestListPartiesTypeFilter(t *testing.T) {
	svc := NewPartyService(testParties(), testBranches())
	ctx := context.Background()

	tests := []struct {
		filter string
		want   []string
	}{
		{"consignor", []string{"100001", "100003"}},
		{"consignee", []string{"100002", "100003"}},
		{"both", []string{"100003"}},
		{"billing", []string{"100001", "100002", "100003", "100004"}},
		{"", []string{"100001", "100002", "100003", "100004"}},
	}

	for _, tt := range tests {
		t.Run("type="+tt.filter, func(t *testing.T) {
			parties, total, err := svc.ListParties(ctx, employeeActor, &ListPartiesInput{Type: tt.filter}, firstPage)
			require.NoError(t, err)

			var codes []string
			for _, p := range parties {
				codes = append(codes, p.Code)
			}
			assert.ElementsMatch(t, tt.want, codes)
			assert.EqualValues(t, len(tt.want), total)
		})
	}
}

func TestListPartiesInactiveOnlyForAdmin(t *testing.T) {
	repo := testParties()
	svc := NewPartyService(repo, testBranches())

	_, _, err := svc.ListParties(context.Background(), employeeActor, &ListPartiesInput{IncludeInactive: true}, firstPage)
	require.NoError(t, err)
	assert.False(t, repo.lastFilter.IncludeInactive)

	_, total, err := svc.ListParties(context.Background(), adminActor, &ListPartiesInput{IncludeInactive: true}, firstPage)
	require.NoError(t, err)
	assert.True(t, repo.lastFilter.IncludeInactive)
	assert.EqualValues(t, 5, total)
}

func TestCreateParty(t *testing.T) {
	repo := testParties()
	svc := NewPartyService(repo, testBranches())
	codes := []string{"100001", "100002", "654321"}
	svc.newCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	party, err := svc.CreateParty(context.Background(), employeeActor, &PartyInput{
		Name:    " Konkan Spices ",
		Type:    "Consignor",
		GSTIN:   "30aabcu9603r1zm",
		Pincode: "403601",
	})
	require.NoError(t, err)
	assert.Equal(t, "654321", party.Code, "taken codes are skipped")
	assert.Equal(t, "Konkan Spices", party.Name)
	assert.Equal(t, "consignor", party.Type)
	assert.Equal(t, "30AABCU9603R1ZM", party.GSTIN)
	assert.True(t, party.IsActive)
	assert.Equal(t, "u-emp", *party.CreatedBy)
}

func TestCreatePartyCodeExhausted(t *testing.T) {
	svc := NewPartyService(testParties(), testBranches())
	svc.newCode = func() string { return "100001" }

	_, err := svc.CreateParty(context.Background(), employeeActor, &PartyInput{Name: "Dup", Type: "consignee"})
	assert.ErrorIs(t, err, ErrPartyCodeExhausted)
}

func TestRandomPartyCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := randomPartyCode()
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
	}
}

func TestCreatePartyValidation(t *testing.T) {
	svc := NewPartyService(testParties(), testBranches())
	ctx := context.Background()

	_, err := svc.CreateParty(ctx, employeeActor, &PartyInput{Name: "X Co", Type: "shipper"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateParty(ctx, employeeActor, &PartyInput{Name: "Bill Co", Type: "billing"})
	assert.ErrorIs(t, err, ErrBillingBranchRequired)

	_, err = svc.CreateParty(ctx, employeeActor, &PartyInput{Name: "Bill Co", Type: "billing", BranchCode: "old"})
	assert.ErrorIs(t, err, ErrBranchInactive)

	_, err = svc.CreateParty(ctx, employeeActor, &PartyInput{Name: "Bad GST", Type: "both", GSTIN: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePartyActiveFlagNeedsAdmin(t *testing.T) {
	repo := testParties()
	svc := NewPartyService(repo, testBranches())
	ctx := context.Background()
	off := false

	_, err := svc.UpdateParty(ctx, employeeActor, "100001", &PartyInput{Name: "Goa Traders", Type: "consignor", IsActive: &off})
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.True(t, repo.parties["100001"].IsActive)

	renamed, err := svc.UpdateParty(ctx, employeeActor, "100001", &PartyInput{Name: "Goa Traders LLP", Type: "both"})
	require.NoError(t, err)
	assert.Equal(t, "Goa Traders LLP", renamed.Name)
	assert.True(t, renamed.IsActive)

	updated, err := svc.UpdateParty(ctx, adminActor, "100001", &PartyInput{Name: "Goa Traders LLP", Type: "both", IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateParty(ctx, adminActor, "999999", &PartyInput{Name: "Nobody", Type: "both"})
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestDeactivateParty(t *testing.T) {
	repo := testParties()
	svc := NewPartyService(repo, testBranches())
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeactivateParty(ctx, employeeActor, "100002"), access.ErrForbidden)
	require.NoError(t, svc.DeactivateParty(ctx, adminActor, "100002"))
	assert.False(t, repo.parties["100002"].IsActive)
	assert.ErrorIs(t, svc.DeactivateParty(ctx, adminActor, "100002"), ErrPartyAlreadyInactive)
}
