package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity, users & sessions
// ============================================================

// Identity holds login credentials. Its ID is shared with the users row.
type Identity struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Identity) TableName() string {
	return "identities"
}

// User represents the users table (the user directory)
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeCode string    `gorm:"uniqueIndex;size:20;not null" json:"employee_code"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Role         string    `gorm:"size:20;not null;default:'employee';index" json:"role"`
	Department   string    `gorm:"size:50" json:"department"`
	Phone        string    `gorm:"size:20" json:"phone"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy    *string   `gorm:"size:36" json:"created_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         u.Role,
		Department:   u.Department,
		Phone:        u.Phone,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	IdentityID string     `gorm:"size:36;index;not null" json:"identity_id"`
	TokenHash  string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt  *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// UserSession is the login/logout audit trail
type UserSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	LoginAt   time.Time  `gorm:"not null;index" json:"login_at"`
	LogoutAt  *time.Time `gorm:"index" json:"logout_at"`
	IPAddress string     `gorm:"size:45" json:"ip_address"`
	UserAgent string     `gorm:"size:255" json:"user_agent"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// AutoMigrate creates or updates every table owned by the service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Identity{},
		&User{},
		&RefreshToken{},
		&UserSession{},
		&Branch{},
		&Party{},
		&Consignment{},
		&Challan{},
	)
}
