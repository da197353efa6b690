package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is an admin-curated grouping. Deleting one does not cascade to
// products; orphaned product.category strings surface as dynamic groups.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
