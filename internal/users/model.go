package users

import (
	"strings"
	"time"
)

// Role values assignable to an account. RoleLegacyUser predates the
// role split and still appears on older records; it is accepted
// everywhere a role is read.
const (
	RoleAdmin      = "admin"
	RoleMat        = "mat"
	RoleMachine    = "machine"
	RoleCombined   = "combined"
	RoleLegacyUser = "user"
)

// User models a stored account. The password hash never leaves the server.
type User struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Email        string    `gorm:"column:email;size:320;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string    `gorm:"column:role;size:32;not null;default:user" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName exposes the table backing user accounts.
func (User) TableName() string {
	return "users"
}

// NormalizeEmail folds an address to the canonical stored form. Every
// write and every lookup goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether the value is an assignable account role.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMat, RoleMachine, RoleCombined, RoleLegacyUser:
		return true
	default:
		return false
	}
}
