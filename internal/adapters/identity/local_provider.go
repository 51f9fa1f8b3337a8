// Package identity implements the identity provider on top of the service's
// own database: bcrypt credentials, HS256 access tokens and rotating refresh
// tokens stored as SHA-256 hashes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/config"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/jwt"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocalProvider is a services.IdentityProvider backed by gorm repositories
type LocalProvider struct {
	identities repositories.IdentityRepository
	tokens     repositories.RefreshTokenRepository
	signer     *jwt.Signer
}

// NewLocalProvider creates a new identity provider
func NewLocalProvider(
	identities repositories.IdentityRepository,
	tokens repositories.RefreshTokenRepository,
	jwtCfg config.JWTConfig,
) *LocalProvider {
	return &LocalProvider{
		identities: identities,
		tokens:     tokens,
		signer:     jwt.NewSigner(jwtCfg.Secret, jwtCfg.RefreshSecret, jwtCfg.AccessTTL(), jwtCfg.RefreshTTL()),
	}
}

var _ services.IdentityProvider = (*LocalProvider)(nil)

// CreateIdentity registers credentials and returns the new identity id
func (p *LocalProvider) CreateIdentity(ctx context.Context, email, plain string) (string, error) {
	email = normalizeEmail(email)

	if _, err := p.identities.GetByEmail(ctx, email); err == nil {
		return "", services.ErrIdentityExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	identity := &models.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.identities.Create(ctx, identity); err != nil {
		return "", err
	}
	return identity.ID, nil
}

// DeleteIdentity removes an identity and its refresh tokens
func (p *LocalProvider) DeleteIdentity(ctx context.Context, id string) error {
	return p.identities.Delete(ctx, id)
}

// SignInWithPassword verifies credentials and issues a token pair
func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, plain string) (*services.TokenPair, error) {
	identity, err := p.identities.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plain, identity.PasswordHash) {
		return nil, services.ErrInvalidCredentials
	}

	return p.issue(ctx, identity)
}

// ValidateAccessToken returns the identity id carried by a valid access token
func (p *LocalProvider) ValidateAccessToken(_ context.Context, token string) (string, error) {
	identityID, err := p.signer.ParseAccess(token)
	if err != nil {
		return "", tokenError(err)
	}
	return identityID, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new pair issued
func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	identityID, err := p.signer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	stored, err := p.tokens.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrInvalidToken
		}
		return nil, err
	}
	if stored.IdentityID != identityID {
		return nil, services.ErrInvalidToken
	}
	if stored.IsRevoked() {
		return nil, p.revokeFamily(ctx, stored.IdentityID)
	}
	if stored.IsExpired() {
		return nil, services.ErrTokenExpired
	}

	identity, err := p.identities.GetByID(ctx, stored.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrInvalidToken
		}
		return nil, err
	}

	rotated, err := p.tokens.Revoke(ctx, stored.ID)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// another request rotated this token after it was read
		return nil, p.revokeFamily(ctx, stored.IdentityID)
	}
	return p.issue(ctx, identity)
}

// revokeFamily answers reuse of a rotated refresh token: whoever holds a
// copy of it is signed out along with the legitimate session.
func (p *LocalProvider) revokeFamily(ctx context.Context, identityID string) error {
	if err := p.tokens.RevokeAllByIdentityID(ctx, identityID); err != nil {
		logger.Error("Revoking refresh tokens after reuse failed", err)
	}
	logger.Warningf("Rotated refresh token reused for identity %s, all sessions revoked", identityID)
	return services.ErrTokenRevoked
}

// SignOut revokes a single refresh token
func (p *LocalProvider) SignOut(ctx context.Context, refreshToken string) error {
	return p.tokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// SignOutAll revokes every refresh token of an identity
func (p *LocalProvider) SignOutAll(ctx context.Context, identityID string) error {
	return p.tokens.RevokeAllByIdentityID(ctx, identityID)
}

// ChangePassword replaces the password after checking the current one and
// revokes existing refresh tokens.
func (p *LocalProvider) ChangePassword(ctx context.Context, identityID, current, next string) error {
	identity, err := p.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrInvalidCredentials
		}
		return err
	}
	if !password.Verify(current, identity.PasswordHash) {
		return services.ErrInvalidCredentials
	}

	hash, err := password.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := p.identities.UpdatePasswordHash(ctx, identityID, hash); err != nil {
		return err
	}
	return p.tokens.RevokeAllByIdentityID(ctx, identityID)
}

func (p *LocalProvider) issue(ctx context.Context, identity *models.Identity) (*services.TokenPair, error) {
	accessToken, err := p.signer.Access(identity.ID, identity.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := p.signer.Refresh(identity.ID)
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		IdentityID: identity.ID,
		TokenHash:  password.HashToken(refreshToken),
		ExpiresAt:  expiresAt,
	}
	if err := p.tokens.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &services.TokenPair{
		IdentityID:   identity.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return services.ErrTokenExpired
	}
	return services.ErrInvalidToken
}
