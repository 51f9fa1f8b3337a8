package domain

import "time"

// Role represents an actor's role in the back office
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleAgent    Role = "agent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleAgent:
		return true
	}
	return false
}

// Actor is the authenticated principal resolved for a request. Role and
// Active always come from the user directory, never from the token.
type Actor struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Role         Role
	Active       bool
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// PartyType classifies a party by how bookings may reference it
type PartyType string

const (
	PartyConsignor PartyType = "consignor"
	PartyConsignee PartyType = "consignee"
	PartyBoth      PartyType = "both"
	PartyBilling   PartyType = "billing"
)

// BranchType distinguishes hubs from ordinary branches
type BranchType string

const (
	BranchHub    BranchType = "hub"
	BranchBranch BranchType = "branch"
)

// ChallanType and owner types used on challans
const (
	ChallanMain = "MAIN"
	ChallanFOC  = "FOC"

	OwnerMarket = "MARKET"
	OwnerOwn    = "OWN"

	ChallanActive    = "ACTIVE"
	ChallanCancelled = "CANCELLED"
)

// DeliveryType of a consignment
const (
	DeliveryDoor   = "door"
	DeliveryGodown = "godown"
)

// TrackingEvent is a single entry in a consignment's tracking history
type TrackingEvent struct {
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
}
