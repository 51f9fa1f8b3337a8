package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFound             = errors.New("user not found")
	ErrEmployeeCodeExists       = errors.New("employee code already exists")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrOldPasswordWrong         = errors.New("current password is incorrect")
	ErrCannotDeactivateSelf     = errors.New("cannot deactivate your own account")
	ErrCannotChangeOwnRole      = errors.New("cannot change your own role")
	ErrUserAlreadyDeactivated   = errors.New("user is already deactivated")
	ErrUserCreationRolledBack   = errors.New("failed to create user profile")
	ErrUserCreationInconsistent = errors.New("failed to create user profile and to remove its identity")
)

// UserService handles user administration and self-service profile updates
type UserService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	identity    IdentityProvider
	now         func() time.Time
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	identity IdentityProvider,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		identity:    identity,
		now:         time.Now,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Role     *string
	IsActive *bool
	Search   string
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	EmployeeCode string `json:"employee_code" validate:"required,min=3,max=20,employeecode"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Password     string `json:"password" validate:"required,strongpassword"`
	Role         string `json:"role" validate:"required,oneof=admin employee agent"`
	Department   string `json:"department" validate:"max=50"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
}

// UpdateUserInput represents update user input (for admin)
type UpdateUserInput struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Department *string `json:"department" validate:"omitempty,max=50"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin employee agent"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Department *string `json:"department" validate:"omitempty,max=50"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpassword"`
}

// ListUsers lists users with pagination (admin)
func (s *UserService) ListUsers(ctx context.Context, actor *domain.Actor, input *ListUsersInput, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	if err := access.Authorize(actor, access.ViewUsers, ""); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Role:     input.Role,
		IsActive: input.IsActive,
		Search:   input.Search,
	}, params.Offset(), params.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, user := range users {
		out[i] = user.ToResponse()
	}
	return out, total, nil
}

// GetUser returns a profile. Actors may read their own; admins may read any.
func (s *UserService) GetUser(ctx context.Context, actor *domain.Actor, id string) (*models.UserResponse, error) {
	if err := access.AuthorizeProfileView(actor, id); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// CreateUser creates an identity and then the matching profile. When the
// profile cannot be stored the identity is deleted again.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.Actor, input *CreateUserInput) (*models.UserResponse, error) {
	if err := access.Authorize(actor, access.MutateUser, ""); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, &actor.ID, input)
	if err != nil {
		return nil, err
	}

	logger.Successf("User %s created by %s", user.EmployeeCode, actor.EmployeeCode)
	return user.ToResponse(), nil
}

// SeedAdmin creates the bootstrap administrator unless an admin already exists
func (s *UserService) SeedAdmin(ctx context.Context, input *CreateUserInput) (bool, error) {
	role := string(domain.RoleAdmin)
	_, total, err := s.userRepo.List(ctx, repositories.UserFilter{Role: &role}, 0, 1)
	if err != nil {
		return false, err
	}
	if total > 0 {
		return false, nil
	}

	input.Role = role
	if _, err := s.createUser(ctx, nil, input); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) createUser(ctx context.Context, createdBy *string, input *CreateUserInput) (*models.User, error) {
	input.EmployeeCode = strings.ToUpper(strings.TrimSpace(input.EmployeeCode))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	exists, err := s.userRepo.ExistsByEmployeeCode(ctx, input.EmployeeCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmployeeCodeExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	// 1. Identity first, its id becomes the profile id
	id, err := s.identity.CreateIdentity(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, ErrIdentityExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	// 2. Profile
	user := &models.User{
		ID:           id,
		EmployeeCode: input.EmployeeCode,
		FullName:     input.FullName,
		Email:        input.Email,
		Role:         input.Role,
		Department:   strings.TrimSpace(input.Department),
		Phone:        strings.TrimSpace(input.Phone),
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.rollbackIdentity(ctx, id, input.EmployeeCode, err)
	}

	return user, nil
}

// rollbackIdentity deletes an identity whose profile could not be stored.
// It runs even when ctx was cancelled.
func (s *UserService) rollbackIdentity(ctx context.Context, id, code string, cause error) error {
	logger.Error("Failed to create profile for "+code+", removing identity", cause)

	if err := s.identity.DeleteIdentity(context.WithoutCancel(ctx), id); err != nil {
		logger.Error("Failed to remove orphaned identity "+id, err)
		return fmt.Errorf("%w: %v (rollback: %v)", ErrUserCreationInconsistent, cause, err)
	}
	return fmt.Errorf("%w: %v", ErrUserCreationRolledBack, cause)
}

// UpdateUser updates a user (admin)
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.Actor, id string, input *UpdateUserInput) (*models.UserResponse, error) {
	if err := access.Authorize(actor, access.MutateUser, ""); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// Prevent admin from changing own role or locking themselves out
	if id == actor.ID {
		if input.Role != nil && *input.Role != user.Role {
			return nil, ErrCannotChangeOwnRole
		}
		if input.IsActive != nil && !*input.IsActive {
			return nil, ErrCannotDeactivateSelf
		}
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	deactivated := false
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		deactivated = !*input.IsActive
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		s.endSessions(ctx, user)
	}

	return user.ToResponse(), nil
}

// DeactivateUser soft-deletes a user: the profile stays, logins stop
func (s *UserService) DeactivateUser(ctx context.Context, actor *domain.Actor, id string) error {
	if err := access.Authorize(actor, access.MutateUser, ""); err != nil {
		return err
	}
	if id == actor.ID {
		return ErrCannotDeactivateSelf
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUserAlreadyDeactivated
	}

	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.endSessions(ctx, user)
	logger.Infof("User %s deactivated by %s", user.EmployeeCode, actor.EmployeeCode)
	return nil
}

func (s *UserService) endSessions(ctx context.Context, user *models.User) {
	if err := s.identity.SignOutAll(ctx, user.ID); err != nil {
		logger.Error("Failed to revoke tokens of "+user.EmployeeCode, err)
	}
	if err := s.sessionRepo.CloseOpen(ctx, user.ID, s.now()); err != nil {
		logger.Error("Failed to close sessions of "+user.EmployeeCode, err)
	}
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, actor *domain.Actor) (*models.UserResponse, error) {
	if err := access.Authorize(actor, access.ViewOwnProfile, actorID(actor)); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, actor, actor.ID)
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.Actor, input *UpdateProfileInput) (*models.UserResponse, error) {
	if err := access.Authorize(actor, access.EditOwnProfile, actorID(actor)); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	user, err := s.getUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword changes own password; every refresh token is revoked
func (s *UserService) ChangePassword(ctx context.Context, actor *domain.Actor, input *ChangePasswordInput) error {
	if err := access.Authorize(actor, access.EditOwnProfile, actorID(actor)); err != nil {
		return err
	}
	if err := validate.Struct(input); err != nil {
		return domain.Invalid(err)
	}

	if err := s.identity.ChangePassword(ctx, actor.ID, input.CurrentPassword, input.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrOldPasswordWrong
		}
		return err
	}

	logger.Infof("Password changed for %s", actor.EmployeeCode)
	return nil
}

// ListSessions returns the login history of a user, newest first
func (s *UserService) ListSessions(ctx context.Context, actor *domain.Actor, userID string, limit int) ([]*models.UserSession, error) {
	if err := access.AuthorizeProfileView(actor, userID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByUser(ctx, userID, pagination.ClampLimit(limit))
}

func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func actorID(actor *domain.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
