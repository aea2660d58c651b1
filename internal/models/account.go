package models

import (
	"time"
)

// Account roles. Admins oversee every farmhouse; owners only their own.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string  `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email        *string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Role         string  `gorm:"size:16;not null" json:"role"` // owner|admin
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
	Phone        *string `gorm:"size:32" json:"phone"`

	Farmhouses []Farmhouse `gorm:"foreignKey:OwnerID" json:"farmhouses,omitempty"`
}

// Login returns the identity the account authenticates under: email when
// present, username otherwise. Tokens carry this as the subject claim.
func (a *Account) Login() string {
	if a.Email != nil && *a.Email != "" {
		return *a.Email
	}
	return a.Username
}
