package services

import "context"

// TokenPair is what the identity provider returns after a successful sign-in or refresh
type TokenPair struct {
	IdentityID   string `json:"-"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IdentityProvider owns credentials and tokens. The user directory keys
// profiles by the identity id it hands out.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	DeleteIdentity(ctx context.Context, id string) error
	SignInWithPassword(ctx context.Context, email, password string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	SignOutAll(ctx context.Context, identityID string) error
	ChangePassword(ctx context.Context, identityID, current, next string) error
}
