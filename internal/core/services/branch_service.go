package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

// Branch service errors
var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrBranchInactive   = errors.New("branch is deactivated")
	ErrBranchCodeExists = errors.New("branch code already exists")
)

// BranchService manages the branch directory
type BranchService struct {
	branchRepo repositories.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repositories.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateBranchInput represents create branch input
type CreateBranchInput struct {
	Code string `json:"code" validate:"required,min=2,max=10,employeecode"`
	BranchInput
}

// BranchInput represents the editable branch fields
type BranchInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Type    string `json:"type" validate:"required,oneof=hub branch"`
	Address string `json:"address" validate:"max=255"`
	City    string `json:"city" validate:"max=50"`
	State   string `json:"state" validate:"max=50"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
}

// ListBranches lists active branches, optionally of one type
func (s *BranchService) ListBranches(ctx context.Context, branchType string) ([]*models.Branch, error) {
	return s.branchRepo.List(ctx, repositories.BranchFilter{
		Type: strings.ToLower(strings.TrimSpace(branchType)),
	})
}

// GetBranch gets a branch by code
func (s *BranchService) GetBranch(ctx context.Context, code string) (*models.Branch, error) {
	branch, err := s.branchRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return branch, nil
}

// CreateBranch creates a branch (admin)
func (s *BranchService) CreateBranch(ctx context.Context, actor *domain.Actor, input *CreateBranchInput) (*models.Branch, error) {
	if err := access.Authorize(actor, access.MutateBranch, ""); err != nil {
		return nil, err
	}

	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	normalizeBranch(&input.BranchInput)
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	exists, err := s.branchRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBranchCodeExists
	}

	branch := &models.Branch{Code: input.Code, IsActive: true}
	applyBranch(branch, &input.BranchInput)

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	logger.Successf("Branch %s created by %s", branch.Code, actor.EmployeeCode)
	return branch, nil
}

// UpdateBranch updates a branch (admin)
func (s *BranchService) UpdateBranch(ctx context.Context, actor *domain.Actor, code string, input *BranchInput) (*models.Branch, error) {
	if err := access.Authorize(actor, access.MutateBranch, ""); err != nil {
		return nil, err
	}

	normalizeBranch(input)
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	branch, err := s.GetBranch(ctx, code)
	if err != nil {
		return nil, err
	}
	applyBranch(branch, input)

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeactivateBranch marks a branch inactive (admin)
func (s *BranchService) DeactivateBranch(ctx context.Context, actor *domain.Actor, code string) error {
	if err := access.Authorize(actor, access.MutateBranch, ""); err != nil {
		return err
	}

	branch, err := s.GetBranch(ctx, code)
	if err != nil {
		return err
	}
	if !branch.IsActive {
		return ErrBranchInactive
	}

	branch.IsActive = false
	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return err
	}

	logger.Infof("Branch %s deactivated by %s", branch.Code, actor.EmployeeCode)
	return nil
}

func normalizeBranch(input *BranchInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
}

func applyBranch(b *models.Branch, input *BranchInput) {
	b.Name = input.Name
	b.Type = input.Type
	b.Address = strings.TrimSpace(input.Address)
	b.City = strings.TrimSpace(input.City)
	b.State = strings.TrimSpace(input.State)
	b.Phone = strings.TrimSpace(input.Phone)
}

// lookupBranch returns an active branch or a branch error
func lookupBranch(ctx context.Context, repo repositories.BranchRepository, code string) (*models.Branch, error) {
	branch, err := repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, code)
		}
		return nil, err
	}
	if !branch.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrBranchInactive, code)
	}
	return branch, nil
}
