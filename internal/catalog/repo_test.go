package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_en TEXT,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  image TEXT,
  category TEXT,
  category_en TEXT,
  category_id TEXT,
  description TEXT,
  description_en TEXT,
  sizes TEXT,
  colors TEXT,
  print_types TEXT,
  notes TEXT,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_new INTEGER NOT NULL DEFAULT 0,
  is_best_seller INTEGER NOT NULL DEFAULT 0,
  is_on_sale INTEGER NOT NULL DEFAULT 0,
  sale_percentage INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedProduct(t *testing.T, repo *Repository, name, nameEn, category string) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		ID:       uuid.New(),
		Name:     name,
		NameEn:   nameEn,
		Category: category,
		Price:    decimal.NewFromInt(99),
	})
	require.NoError(t, err)
	return product
}

// Search has to run on the sqlite dev database too, so it cannot rely on
// Postgres-only operators.
func TestRepositorySearchMatchesAcrossColumnsCaseInsensitive(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	seedProduct(t, repo, "تيشيرت اليوم الوطني", "National Day Tee", "تصاميم وطنية")
	seedProduct(t, repo, "تيشيرت رياضي", "Sports Tee", "تصاميم رياضية")

	rows, err := repo.Search(context.Background(), "NATIONAL")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "تيشيرت اليوم الوطني", rows[0].Name)

	rows, err = repo.Search(context.Background(), "رياضية")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "تيشيرت رياضي", rows[0].Name)

	rows, err = repo.Search(context.Background(), "hoodie")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
