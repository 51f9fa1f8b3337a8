package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRole          = errors.New("invalid role selected")
	ErrAccountDeactivated   = errors.New("account deactivated")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrDirectoryUnavailable = errors.New("failed to verify permissions")
	ErrIdentityExists       = errors.New("identity already exists")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenRevoked         = errors.New("token revoked")
)

// AuthService handles login, token refresh and per-request actor resolution
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	identity    IdentityProvider
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	identity IdentityProvider,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		identity:    identity,
		now:         time.Now,
	}
}

// LoginInput represents login input
type LoginInput struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=admin employee agent"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Login checks, in order: the employee code exists, the claimed role matches,
// the account is active and the identity provider accepts the password. An
// unknown code and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	// 1. Find profile by employee code
	code := strings.ToUpper(strings.TrimSpace(input.EmployeeCode))
	user, err := s.userRepo.GetByEmployeeCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	// 2. Claimed role must match the directory
	if user.Role != input.Role {
		return nil, ErrInvalidRole
	}

	// 3. Deactivated accounts never reach the identity provider
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	// 4. Verify password with the identity provider
	tokens, err := s.identity.SignInWithPassword(ctx, user.Email, input.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			logger.Error("Identity provider sign-in failed for "+user.EmployeeCode, err)
		}
		return nil, ErrInvalidCredentials
	}
	if tokens.IdentityID != "" && tokens.IdentityID != user.ID {
		logger.Warningf("Identity %s does not match profile %s", tokens.IdentityID, user.ID)
		_ = s.identity.SignOut(ctx, tokens.RefreshToken)
		return nil, ErrInvalidCredentials
	}

	// 5. Session audit is best effort
	session := &models.UserSession{
		UserID:    user.ID,
		LoginAt:   s.now(),
		IPAddress: input.IPAddress,
		UserAgent: truncate(input.UserAgent, 255),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		logger.Error("Failed to record login session for "+user.EmployeeCode, err)
	}

	logger.Successf("User logged in: %s (%s)", user.EmployeeCode, user.Role)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// ResolveActor turns an access token into the current actor. Role and status
// are read from the directory on every call; any directory failure denies.
func (s *AuthService) ResolveActor(ctx context.Context, accessToken string) (*domain.Actor, error) {
	id, err := s.identity.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		logger.Error("Failed to load profile "+id, err)
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return toActor(user), nil
}

// RefreshToken rotates the refresh token and re-checks the directory record
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	tokens, err := s.identity.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, tokens.IdentityID)
	if err != nil {
		_ = s.identity.SignOut(ctx, tokens.RefreshToken)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	if !user.IsActive {
		if err := s.identity.SignOutAll(ctx, user.ID); err != nil {
			logger.Error("Failed to revoke tokens of deactivated user "+user.EmployeeCode, err)
		}
		return nil, ErrAccountDeactivated
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token and closes the actor's open sessions.
// actor may be nil when the access token already expired.
func (s *AuthService) Logout(ctx context.Context, actor *domain.Actor, refreshToken string) error {
	if refreshToken != "" {
		if err := s.identity.SignOut(ctx, refreshToken); err != nil {
			return err
		}
	}

	if actor != nil {
		if err := s.sessionRepo.CloseOpen(ctx, actor.ID, s.now()); err != nil {
			logger.Error("Failed to record logout for "+actor.EmployeeCode, err)
		}
		logger.Successf("User logged out: %s", actor.EmployeeCode)
	}
	return nil
}

// LogoutAll revokes every refresh token of the actor
func (s *AuthService) LogoutAll(ctx context.Context, actor *domain.Actor) error {
	if err := s.identity.SignOutAll(ctx, actor.ID); err != nil {
		return err
	}
	if err := s.sessionRepo.CloseOpen(ctx, actor.ID, s.now()); err != nil {
		logger.Error("Failed to record logout for "+actor.EmployeeCode, err)
	}

	logger.Successf("All sessions revoked for user: %s", actor.EmployeeCode)
	return nil
}

// Me returns the actor's full profile
func (s *AuthService) Me(ctx context.Context, actor *domain.Actor) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

func toActor(u *models.User) *domain.Actor {
	return &domain.Actor{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         domain.Role(u.Role),
		Active:       u.IsActive,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
