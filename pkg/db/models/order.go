package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

// OrderItem is the immutable snapshot of a cart line at order time. Edits to
// the product afterwards never touch recorded orders.
type OrderItem struct {
	LineID     string          `json:"line_id"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	Category   string          `json:"category"`
	Size       string          `json:"size"`
	Color      string          `json:"color"`
	PrintType  string          `json:"print_type"`
	Quantity   int             `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
	UploadURL  string          `json:"upload_url,omitempty"`
	UploadName string          `json:"upload_name,omitempty"`
}

// Order is an admin-tracked record of a WhatsApp hand-off. The deep link is
// still the real submission channel; this row exists so the admin screens
// can follow up on it.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID    *uuid.UUID        `gorm:"column:customer_id;type:uuid" json:"customer_id,omitempty"`
	CustomerName  string            `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerEmail string            `gorm:"column:customer_email" json:"customer_email"`
	CustomerPhone string            `gorm:"column:customer_phone" json:"customer_phone,omitempty"`
	Items         []OrderItem       `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:new" json:"status"`
	Notes         string            `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
