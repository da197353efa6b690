package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

// Link is a managed footer/social link. Ordering on the storefront follows
// SortOrder ascending; inactive links stay in the admin list only.
type Link struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string             `gorm:"column:title;not null" json:"title"`
	URL         string             `gorm:"column:url;not null" json:"url"`
	Description string             `gorm:"column:description" json:"description,omitempty"`
	Icon        string             `gorm:"column:icon" json:"icon,omitempty"`
	Category    enums.LinkCategory `gorm:"column:category;not null;default:external" json:"category"`
	// No gorm default tag here: a default would make GORM skip the column
	// on insert and silently flip admin-created disabled links to active.
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
