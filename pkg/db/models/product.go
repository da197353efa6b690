package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical storefront listing. Columns are snake_case; the
// legacy camelCase document keys are translated at the API boundary and
// never stored.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string           `gorm:"column:name;not null" json:"name"`
	NameEn        string           `gorm:"column:name_en" json:"name_en"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(10,2)" json:"original_price,omitempty"`
	Image         string           `gorm:"column:image" json:"image"`
	// Category keeps the display-name association older documents rely on;
	// CategoryID is the resolved FK for rows written after the migration.
	Category       string         `gorm:"column:category" json:"category"`
	CategoryEn     string         `gorm:"column:category_en" json:"category_en"`
	CategoryID     *uuid.UUID     `gorm:"column:category_id;type:uuid" json:"category_id,omitempty"`
	Description    string         `gorm:"column:description" json:"description"`
	DescriptionEn  string         `gorm:"column:description_en" json:"description_en"`
	Sizes          pq.StringArray `gorm:"column:sizes;type:text[]" json:"sizes"`
	Colors         pq.StringArray `gorm:"column:colors;type:text[]" json:"colors"`
	PrintTypes     pq.StringArray `gorm:"column:print_types;type:text[]" json:"print_types"`
	Notes          string         `gorm:"column:notes" json:"notes"`
	IsFeatured     bool           `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsNew          bool           `gorm:"column:is_new;not null;default:false" json:"is_new"`
	IsBestSeller   bool           `gorm:"column:is_best_seller;not null;default:false" json:"is_best_seller"`
	IsOnSale       bool           `gorm:"column:is_on_sale;not null;default:false" json:"is_on_sale"`
	SalePercentage *int           `gorm:"column:sale_percentage" json:"sale_percentage,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
