package models

import "time"

// ============================================================
// Master data: branches & parties
// ============================================================

// Branch is a booking office or hub. Branches are deactivated, never deleted.
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Type      string    `gorm:"size:10;not null;default:'branch'" json:"type"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:50" json:"city"`
	State     string    `gorm:"size:50" json:"state"`
	Phone     string    `gorm:"size:20" json:"phone"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}

// Party is a consignor, consignee or billing entity. Parties are deactivated, never deleted.
type Party struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:6;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"size:150;not null;index" json:"name"`
	Type       string    `gorm:"size:10;not null;index" json:"type"`
	GSTIN      string    `gorm:"column:gstin;size:15" json:"gstin"`
	Address    string    `gorm:"size:255" json:"address"`
	City       string    `gorm:"size:50" json:"city"`
	State      string    `gorm:"size:50" json:"state"`
	Pincode    string    `gorm:"size:6" json:"pincode"`
	Phone      string    `gorm:"size:15" json:"phone"`
	Email      string    `gorm:"size:100" json:"email"`
	BranchCode string    `gorm:"size:10" json:"branch_code"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy  *string   `gorm:"size:36" json:"created_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Party) TableName() string {
	return "parties"
}
