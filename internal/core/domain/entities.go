package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleFacilitator Role = "Facilitator"
)

// LaptopStatus represents the lifecycle state of a laptop asset.
// A laptop is Distributed if and only if exactly one open distribution
// record references it; the lifecycle coordinator keeps both sides of
// that pair in sync inside one transaction.
type LaptopStatus string

const (
	StatusAvailable      LaptopStatus = "Available"
	StatusDistributed    LaptopStatus = "Distributed"
	StatusNeedsRepair    LaptopStatus = "Needs_repair"
	StatusDecommissioned LaptopStatus = "Decommissioned"
)

// ValidStatus reports whether s is one of the known laptop statuses.
func ValidStatus(s LaptopStatus) bool {
	switch s {
	case StatusAvailable, StatusDistributed, StatusNeedsRepair, StatusDecommissioned:
		return true
	}
	return false
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
