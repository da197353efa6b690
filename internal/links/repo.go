package links

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

// Repository exposes link persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a link repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new link row.
func (r *Repository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// List returns every link ordered by sort order.
func (r *Repository) List(ctx context.Context) ([]models.Link, error) {
	var rows []models.Link
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns only the links the storefront renders.
func (r *Repository) ListActive(ctx context.Context) ([]models.Link, error) {
	var rows []models.Link
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory returns active links in one category.
func (r *Repository) ListByCategory(ctx context.Context, category enums.LinkCategory) ([]models.Link, error) {
	var rows []models.Link
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND category = ?", true, category).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single link.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	var row models.Link
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists link changes.
func (r *Repository) Update(ctx context.Context, link *models.Link) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// Delete removes a link row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Link{}, "id = ?", id).Error
}
