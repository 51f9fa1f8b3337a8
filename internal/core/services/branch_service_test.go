package services

import (
	"context"
	"testing"

	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBranches(t *testing.T) {
	svc := NewBranchService(testBranches())

	all, err := svc.ListBranches(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hubs, err := svc.ListBranches(context.Background(), "HUB")
	require.NoError(t, err)
	require.Len(t, hubs, 1)
	assert.Equal(t, "BOM", hubs[0].Code)
}

func TestCreateBranch(t *testing.T) {
	repo := testBranches()
	svc := NewBranchService(repo)
	ctx := context.Background()

	input := &CreateBranchInput{Code: " pnj ", BranchInput: BranchInput{Name: "Panaji", Type: "Branch", City: "Panaji"}}

	_, err := svc.CreateBranch(ctx, employeeActor, input)
	assert.ErrorIs(t, err, access.ErrForbidden)

	branch, err := svc.CreateBranch(ctx, adminActor, input)
	require.NoError(t, err)
	assert.Equal(t, "PNJ", branch.Code)
	assert.Equal(t, "branch", branch.Type)
	assert.True(t, branch.IsActive)

	_, err = svc.CreateBranch(ctx, adminActor, &CreateBranchInput{Code: "MRG", BranchInput: BranchInput{Name: "Again", Type: "branch"}})
	assert.ErrorIs(t, err, ErrBranchCodeExists)

	_, err = svc.CreateBranch(ctx, adminActor, &CreateBranchInput{Code: "XYZ", BranchInput: BranchInput{Name: "Depot", Type: "depot"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateAndDeactivateBranch(t *testing.T) {
	repo := testBranches()
	svc := NewBranchService(repo)
	ctx := context.Background()

	updated, err := svc.UpdateBranch(ctx, adminActor, "mrg", &BranchInput{Name: "Margao Main", Type: "hub"})
	require.NoError(t, err)
	assert.Equal(t, "Margao Main", updated.Name)
	assert.Equal(t, "hub", repo.branches["MRG"].Type)

	_, err = svc.UpdateBranch(ctx, adminActor, "ZZZ", &BranchInput{Name: "None", Type: "hub"})
	assert.ErrorIs(t, err, ErrBranchNotFound)

	assert.ErrorIs(t, svc.DeactivateBranch(ctx, employeeActor, "MRG"), access.ErrForbidden)
	require.NoError(t, svc.DeactivateBranch(ctx, adminActor, "MRG"))
	assert.False(t, repo.branches["MRG"].IsActive)
	assert.ErrorIs(t, svc.DeactivateBranch(ctx, adminActor, "MRG"), ErrBranchInactive)
}
