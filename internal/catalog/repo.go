package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// List returns every product, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByFlag returns products carrying the given merchandising flag, newest first.
func (r *Repository) ListByFlag(ctx context.Context, flag enums.ProductFlag, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where(string(flag)+" = ?", true).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the mutable product fields.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// Search matches the query against the bilingual name, description, and
// category columns. LOWER(...) LIKE instead of ILIKE so the same query runs
// on both Postgres and the sqlite dev database.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where(
			"LOWER(name) LIKE ? OR LOWER(name_en) LIKE ? OR LOWER(description) LIKE ? OR LOWER(description_en) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoriesRepository exposes category persistence operations.
type CategoriesRepository struct {
	db *gorm.DB
}

// NewCategoriesRepository constructs a category repository tied to the provided GORM DB.
func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

// Create inserts a new category row.
func (r *CategoriesRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// List returns all categories ordered by creation time.
func (r *CategoriesRepository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single category.
func (r *CategoriesRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists category changes.
func (r *CategoriesRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category. Products keep their denormalized category name.
func (r *CategoriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
