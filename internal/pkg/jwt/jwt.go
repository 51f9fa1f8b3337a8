package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "vgt-backoffice"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// AccessClaims identify the caller only. Role and active status are read
// from the user directory on every request.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues and verifies the HS256 token pair. Access and refresh tokens
// use separate secrets so one can never be replayed as the other.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Access signs a short lived token whose subject is the identity id
func (s *Signer) Access(identityID, email string) (string, error) {
	claims := AccessClaims{Email: email, RegisteredClaims: s.registered(identityID, s.accessTTL)}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// Refresh signs a refresh token with a unique jti and returns its expiry
func (s *Signer) Refresh(identityID string) (string, time.Time, error) {
	claims := s.registered(identityID, s.refreshTTL)
	claims.ID = uuid.NewString()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	return token, claims.ExpiresAt.Time, err
}

func (s *Signer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// ParseAccess returns the identity id of a valid access token
func (s *Signer) ParseAccess(token string) (string, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, s.accessSecret, claims); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ParseRefresh returns the identity id of a valid refresh token. Whether it
// was revoked is for the token store to say.
func (s *Signer) ParseRefresh(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(token, s.refreshSecret, claims); err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (s *Signer) parse(token string, secret []byte, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case err != nil || !parsed.Valid:
		return ErrTokenInvalid
	}

	subject, _ := claims.GetSubject()
	if subject == "" {
		return ErrTokenInvalid
	}
	return nil
}
