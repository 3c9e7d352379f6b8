package user

import (
	"time"

	"github.com/eleven-am/blog-backend/internal/shared"
)

type User struct {
	ID           string        `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"uniqueIndex;not null;size:80" json:"username"`
	Email        string        `gorm:"uniqueIndex;not null;size:120" json:"email"`
	PasswordHash string        `gorm:"size:128" json:"-"`
	GoogleID     *string       `gorm:"uniqueIndex;size:100" json:"-"`
	IsAdmin      bool          `gorm:"default:false" json:"is_admin"`
	Role         shared.Role   `gorm:"default:reader;size:20" json:"role"`
	Avatar       shared.Avatar `gorm:"size:255" json:"avatar"`
	Bio          string        `json:"bio,omitempty"`
	Points       int           `gorm:"default:0" json:"points"`
	Streak       int           `gorm:"default:0" json:"streak"`
	LastSeen     time.Time     `json:"last_seen"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasPassword reports whether the account can log in locally. Accounts
// created by federated login have no credential until one is set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
