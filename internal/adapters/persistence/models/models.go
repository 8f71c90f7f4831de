package models

import (
	"time"

	"lendtrack/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:50;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'Facilitator'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
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

// ============================================================
// Asset & Distribution Tables
// ============================================================

// Laptop represents laptops table. Status is the single source of truth for
// loan eligibility; it is flipped only inside the same transaction that
// creates or closes the matching distribution record.
type Laptop struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Brand        string              `gorm:"size:100;not null" json:"brand"`
	Model        string              `gorm:"size:100;not null" json:"model"`
	SerialNumber string              `gorm:"size:100;uniqueIndex;not null" json:"serial_number"`
	Status       domain.LaptopStatus `gorm:"size:20;not null" json:"status"`
	PurchaseDate string              `gorm:"size:20;not null" json:"purchase_date"`
	Notes        string              `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Laptop) TableName() string {
	return "laptops"
}

// Distribution represents distributions table. DateReturned == nil means the
// record is open; at most one open record may exist per laptop. Version is the
// optimistic lock counter compared on every guarded update.
type Distribution struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	LaptopID           uint       `gorm:"index;not null" json:"laptop_id"`
	RecipientName      string     `gorm:"size:100;not null" json:"recipient_name"`
	RecipientEmail     string     `gorm:"size:100;uniqueIndex;not null" json:"recipient_email"`
	RecipientPhone     string     `gorm:"size:30;uniqueIndex;not null" json:"recipient_phone"`
	DateDistributed    time.Time  `gorm:"not null;index" json:"date_distributed"`
	ExpectedReturnDate time.Time  `gorm:"not null" json:"expected_return_date"`
	DateReturned       *time.Time `gorm:"index" json:"date_returned"`
	Notes              string     `gorm:"type:text" json:"notes"`
	Version            uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Laptop *Laptop `gorm:"foreignKey:LaptopID" json:"laptop,omitempty"`
}

func (Distribution) TableName() string {
	return "distributions"
}

// IsOpen reports whether the laptop has not been returned yet.
func (d *Distribution) IsOpen() bool {
	return d.DateReturned == nil
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Laptop{},
		&Distribution{},
	)
}
