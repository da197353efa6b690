package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

// User is a registered storefront account.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone        string         `gorm:"column:phone" json:"phone,omitempty"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole `gorm:"column:role;not null;default:customer" json:"role"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
