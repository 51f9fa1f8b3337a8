package services

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

// Party service errors
var (
	ErrPartyNotFound         = errors.New("party not found")
	ErrPartyCodeExhausted    = errors.New("could not allocate a unique party code")
	ErrPartyAlreadyInactive  = errors.New("party is already deactivated")
	ErrBillingBranchRequired = errors.New("billing parties require a branch code")
)

const partyCodeAttempts = 10

// PartyService manages the party directory
type PartyService struct {
	partyRepo  repositories.PartyRepository
	branchRepo repositories.BranchRepository
	newCode    func() string
}

// NewPartyService creates a new party service
func NewPartyService(partyRepo repositories.PartyRepository, branchRepo repositories.BranchRepository) *PartyService {
	return &PartyService{
		partyRepo:  partyRepo,
		branchRepo: branchRepo,
		newCode:    randomPartyCode,
	}
}

func randomPartyCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

// ListPartiesInput represents list parties input
type ListPartiesInput struct {
	Type            string
	Search          string
	IncludeInactive bool
}

// PartyInput represents create/update party input
type PartyInput struct {
	Name       string `json:"name" validate:"required,min=2,max=150"`
	Type       string `json:"type" validate:"required,oneof=consignor consignee both billing"`
	GSTIN      string `json:"gstin" validate:"omitempty,gstin"`
	Address    string `json:"address" validate:"max=255"`
	City       string `json:"city" validate:"max=50"`
	State      string `json:"state" validate:"max=50"`
	Pincode    string `json:"pincode" validate:"omitempty,pincode"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Email      string `json:"email" validate:"omitempty,email,max=100"`
	BranchCode string `json:"branch_code" validate:"max=10"`
	IsActive   *bool  `json:"is_active"`
}

// PartyTypesFor returns the stored types a listing filter matches: consignor
// and consignee also match parties of type both, while billing or an empty
// filter match every type.
func PartyTypesFor(filter string) []string {
	switch domain.PartyType(strings.ToLower(filter)) {
	case domain.PartyConsignor:
		return []string{string(domain.PartyConsignor), string(domain.PartyBoth)}
	case domain.PartyConsignee:
		return []string{string(domain.PartyConsignee), string(domain.PartyBoth)}
	case domain.PartyBoth:
		return []string{string(domain.PartyBoth)}
	default:
		return nil
	}
}

// ListParties lists parties. Inactive parties are only listed for admins.
func (s *PartyService) ListParties(ctx context.Context, actor *domain.Actor, input *ListPartiesInput, params *pagination.Params) ([]*models.Party, int64, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, 0, err
	}

	return s.partyRepo.List(ctx, repositories.PartyFilter{
		Types:           PartyTypesFor(input.Type),
		Search:          input.Search,
		IncludeInactive: input.IncludeInactive && actor.IsAdmin(),
	}, params.Offset(), params.Limit)
}

// GetParty gets a party by code
func (s *PartyService) GetParty(ctx context.Context, actor *domain.Actor, code string) (*models.Party, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, err
	}
	return s.getParty(ctx, code)
}

// CreateParty creates a party with a freshly allocated 6-digit code
func (s *PartyService) CreateParty(ctx context.Context, actor *domain.Actor, input *PartyInput) (*models.Party, error) {
	if err := access.Authorize(actor, access.MutateParty, ""); err != nil {
		return nil, err
	}
	normalizeParty(input)
	if err := s.checkParty(ctx, input); err != nil {
		return nil, err
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	party := &models.Party{
		Code:      code,
		IsActive:  true,
		CreatedBy: &actor.ID,
	}
	applyParty(party, input)

	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	logger.Successf("Party %s (%s) created by %s", party.Code, party.Name, actor.EmployeeCode)
	return party, nil
}

// UpdateParty updates a party. Changing is_active needs the deactivate permission.
func (s *PartyService) UpdateParty(ctx context.Context, actor *domain.Actor, code string, input *PartyInput) (*models.Party, error) {
	if err := access.Authorize(actor, access.MutateParty, ""); err != nil {
		return nil, err
	}
	normalizeParty(input)
	if err := s.checkParty(ctx, input); err != nil {
		return nil, err
	}

	party, err := s.getParty(ctx, code)
	if err != nil {
		return nil, err
	}

	if input.IsActive != nil && *input.IsActive != party.IsActive {
		if err := access.Authorize(actor, access.DeactivateParty, ""); err != nil {
			return nil, err
		}
		party.IsActive = *input.IsActive
	}
	applyParty(party, input)

	if err := s.partyRepo.Update(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}

// DeactivateParty marks a party inactive (admin)
func (s *PartyService) DeactivateParty(ctx context.Context, actor *domain.Actor, code string) error {
	if err := access.Authorize(actor, access.DeactivateParty, ""); err != nil {
		return err
	}

	party, err := s.getParty(ctx, code)
	if err != nil {
		return err
	}
	if !party.IsActive {
		return ErrPartyAlreadyInactive
	}

	party.IsActive = false
	if err := s.partyRepo.Update(ctx, party); err != nil {
		return err
	}

	logger.Infof("Party %s deactivated by %s", party.Code, actor.EmployeeCode)
	return nil
}

func (s *PartyService) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < partyCodeAttempts; i++ {
		code := s.newCode()
		exists, err := s.partyRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrPartyCodeExhausted
}

func (s *PartyService) checkParty(ctx context.Context, input *PartyInput) error {
	if err := validate.Struct(input); err != nil {
		return domain.Invalid(err)
	}

	if input.Type == string(domain.PartyBilling) && input.BranchCode == "" {
		return ErrBillingBranchRequired
	}
	if input.BranchCode != "" {
		if _, err := lookupBranch(ctx, s.branchRepo, input.BranchCode); err != nil {
			return err
		}
	}
	return nil
}

func (s *PartyService) getParty(ctx context.Context, code string) (*models.Party, error) {
	party, err := s.partyRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}
	return party, nil
}

func normalizeParty(input *PartyInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	input.GSTIN = strings.ToUpper(strings.TrimSpace(input.GSTIN))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.BranchCode = strings.ToUpper(strings.TrimSpace(input.BranchCode))
}

func applyParty(p *models.Party, input *PartyInput) {
	p.Name = input.Name
	p.Type = input.Type
	p.GSTIN = input.GSTIN
	p.Address = strings.TrimSpace(input.Address)
	p.City = strings.TrimSpace(input.City)
	p.State = strings.TrimSpace(input.State)
	p.Pincode = input.Pincode
	p.Phone = input.Phone
	p.Email = input.Email
	p.BranchCode = input.BranchCode
}
