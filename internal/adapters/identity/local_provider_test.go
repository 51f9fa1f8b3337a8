package identity

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/config"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type memIdentities struct {
	mu   sync.Mutex
	byID map[string]*models.Identity
}

func (r *memIdentities) Create(_ context.Context, identity *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *identity
	r.byID[identity.ID] = &cp
	return nil
}

func (r *memIdentities) GetByID(_ context.Context, id string) (*models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memIdentities) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.byID {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memIdentities) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.PasswordHash = hash
	return nil
}

func (r *memIdentities) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type memTokens struct {
	mu     sync.Mutex
	nextID uint
	tokens []*models.RefreshToken
}

func (r *memTokens) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	cp := *token
	r.tokens = append(r.tokens, &cp)
	return nil
}

func (r *memTokens) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTokens) revokeWhere(match func(*models.RefreshToken) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	n := 0
	for _, t := range r.tokens {
		if t.RevokedAt == nil && match(t) {
			t.RevokedAt = &now
			n++
		}
	}
	return n
}

func (r *memTokens) Revoke(_ context.Context, id uint) (bool, error) {
	return r.revokeWhere(func(t *models.RefreshToken) bool { return t.ID == id }) == 1, nil
}

func (r *memTokens) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.revokeWhere(func(t *models.RefreshToken) bool { return t.TokenHash == tokenHash })
	return nil
}

func (r *memTokens) RevokeAllByIdentityID(_ context.Context, identityID string) error {
	r.revokeWhere(func(t *models.RefreshToken) bool { return t.IdentityID == identityID })
	return nil
}

func (r *memTokens) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

// staleTokens serves the row as it looked before any revocation, the view a
// request gets when another request rotates the same token concurrently.
type staleTokens struct {
	*memTokens
}

func (r staleTokens) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	t, err := r.memTokens.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	t.RevokedAt = nil
	return t, nil
}

var testJWT = config.JWTConfig{
	Secret:           "access-secret",
	RefreshSecret:    "refresh-secret",
	AccessTokenMins:  15,
	RefreshTokenDays: 7,
}

func newProvider() (*LocalProvider, *memIdentities, *memTokens) {
	identities := &memIdentities{byID: map[string]*models.Identity{}}
	tokens := &memTokens{}
	return NewLocalProvider(identities, tokens, testJWT), identities, tokens
}

func TestCreateIdentityAndSignIn(t *testing.T) {
	p, _, tokens := newProvider()
	ctx := context.Background()

	id, err := p.CreateIdentity(ctx, " Ravi@VGT.in ", "Secret@123")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = p.CreateIdentity(ctx, "ravi@vgt.in", "Other@123")
	assert.ErrorIs(t, err, services.ErrIdentityExists)

	pair, err := p.SignInWithPassword(ctx, "RAVI@vgt.in", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, id, pair.IdentityID)
	assert.Len(t, tokens.tokens, 1)

	got, err := p.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSignInFailures(t *testing.T) {
	p, _, _ := newProvider()
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	_, err = p.SignInWithPassword(ctx, "ravi@vgt.in", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = p.SignInWithPassword(ctx, "nobody@vgt.in", "Secret@123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestValidateAccessTokenRejects(t *testing.T) {
	p, _, _ := newProvider()

	_, err := p.ValidateAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	p, _, _ := newProvider()
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	first, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	second, err := p.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.IdentityID, second.IdentityID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = p.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)

	_, err = p.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestSignOutAllRevokesEveryToken(t *testing.T) {
	p, _, _ := newProvider()
	ctx := context.Background()

	id, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	a, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	b, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	require.NoError(t, p.SignOutAll(ctx, id))

	for _, pair := range []*services.TokenPair{a, b} {
		_, err := p.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, services.ErrTokenRevoked)
	}
}

func TestChangePassword(t *testing.T) {
	p, _, _ := newProvider()
	ctx := context.Background()

	id, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	pair, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	err = p.ChangePassword(ctx, id, "wrong", "Next@4567")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	require.NoError(t, p.ChangePassword(ctx, id, "Secret@123", "Next@4567"))

	_, err = p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = p.SignInWithPassword(ctx, "ravi@vgt.in", "Next@4567")
	assert.NoError(t, err)

	_, err = p.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestDeleteIdentity(t *testing.T) {
	p, identities, _ := newProvider()
	ctx := context.Background()

	id, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	require.NoError(t, p.DeleteIdentity(ctx, id))
	assert.Empty(t, identities.byID)
}

func TestRefreshReuseRevokesEveryToken(t *testing.T) {
	p, _, _ := newProvider()
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	first, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	second, err := p.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, err = p.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)

	_, err = p.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestConcurrentRefreshOnlyOneWins(t *testing.T) {
	identities := &memIdentities{byID: map[string]*models.Identity{}}
	tokens := &memTokens{}
	p := NewLocalProvider(identities, staleTokens{tokens}, testJWT)
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)
	pair, err := p.SignInWithPassword(ctx, "ravi@vgt.in", "Secret@123")
	require.NoError(t, err)

	winner, err := p.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, err = p.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)

	for _, tok := range tokens.tokens {
		assert.NotNil(t, tok.RevokedAt, "token %d still live", tok.ID)
	}
	_, err = NewLocalProvider(identities, tokens, testJWT).Refresh(ctx, winner.RefreshToken)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestChangePasswordUnknownIdentity(t *testing.T) {
	p, _, _ := newProvider()

	err := p.ChangePassword(context.Background(), "missing", "Secret@123", "Next@4567")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
