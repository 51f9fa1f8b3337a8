package repositories

import (
	"context"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
)

// UserFilter narrows user listings. Nil fields are not applied.
type UserFilter struct {
	Role     *string
	IsActive *bool
	// Search matches employee code, name or email
	Search string
}

// UserRepository is the user directory
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmployeeCode(ctx context.Context, code string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmployeeCode(ctx context.Context, code string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// IdentityRepository stores login credentials
type IdentityRepository interface {
	Create(ctx context.Context, identity *models.Identity) error
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// Revoke reports false when the token was already revoked, so only one
	// of two concurrent rotations can win.
	Revoke(ctx context.Context, id uint) (bool, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByIdentityID(ctx context.Context, identityID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionRepository records login and logout times
type SessionRepository interface {
	Create(ctx context.Context, session *models.UserSession) error
	CloseOpen(ctx context.Context, userID string, at time.Time) error
	CloseStale(ctx context.Context, before, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.UserSession, error)
}

// BranchFilter narrows branch listings
type BranchFilter struct {
	Type            string
	IncludeInactive bool
}

// BranchRepository is the branch directory
type BranchRepository interface {
	Create(ctx context.Context, branch *models.Branch) error
	GetByCode(ctx context.Context, code string) (*models.Branch, error)
	Update(ctx context.Context, branch *models.Branch) error
	List(ctx context.Context, filter BranchFilter) ([]*models.Branch, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// PartyFilter narrows party listings. An empty Types matches every type.
type PartyFilter struct {
	Types           []string
	Search          string
	IncludeInactive bool
}

// PartyRepository is the party directory
type PartyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	GetByCode(ctx context.Context, code string) (*models.Party, error)
	Update(ctx context.Context, party *models.Party) error
	List(ctx context.Context, filter PartyFilter, offset, limit int) ([]*models.Party, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ConsignmentFilter narrows consignment listings
type ConsignmentFilter struct {
	Search           string
	Branch           string
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}

// ConsignmentRepository stores consignment notes
type ConsignmentRepository interface {
	Create(ctx context.Context, cn *models.Consignment) error
	GetByCNNo(ctx context.Context, cnNo string) (*models.Consignment, error)
	Update(ctx context.Context, cn *models.Consignment) error
	List(ctx context.Context, filter ConsignmentFilter, offset, limit int) ([]*models.Consignment, int64, error)
}

// ChallanFilter narrows challan listings
type ChallanFilter struct {
	Search string
	Branch string
	Type   string
	Status string
	From   *time.Time
	To     *time.Time
}

// ChallanRepository stores challans. A limit of zero or less lists everything.
type ChallanRepository interface {
	Create(ctx context.Context, challan *models.Challan) error
	GetByChallanNo(ctx context.Context, challanNo string) (*models.Challan, error)
	ExistsByChallanNo(ctx context.Context, challanNo string) (bool, error)
	List(ctx context.Context, filter ChallanFilter, offset, limit int) ([]*models.Challan, int64, error)
}
