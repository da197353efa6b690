package links

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
)

func setupLinksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS links (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  icon TEXT,
  category TEXT NOT NULL DEFAULT 'external',
  is_active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedLink(t *testing.T, repo *Repository, title string, category enums.LinkCategory, active bool, sortOrder int) *models.Link {
	t.Helper()
	link, err := repo.Create(context.Background(), &models.Link{
		ID:        uuid.New(),
		Title:     title,
		URL:       "https://example.com/" + title,
		Category:  category,
		IsActive:  active,
		SortOrder: sortOrder,
	})
	require.NoError(t, err)
	return link
}

func TestRepositoryListActiveOrdersBySortOrder(t *testing.T) {
	repo := NewRepository(setupLinksTestDB(t))

	seedLink(t, repo, "second", enums.LinkCategorySocial, true, 2)
	seedLink(t, repo, "first", enums.LinkCategorySocial, true, 1)
	seedLink(t, repo, "hidden", enums.LinkCategorySocial, false, 0)

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Title)
	assert.Equal(t, "second", active[1].Title)
}

func TestRepositoryCreatePreservesDisabledAndDescription(t *testing.T) {
	repo := NewRepository(setupLinksTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Link{
		ID:          uuid.New(),
		Title:       "قريباً",
		URL:         "https://example.com/soon",
		Description: "رابط غير مفعل بعد",
		Category:    enums.LinkCategoryExternal,
		IsActive:    false,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "رابط غير مفعل بعد", got.Description)
}

func TestRepositoryListByCategoryExcludesOthers(t *testing.T) {
	repo := NewRepository(setupLinksTestDB(t))

	seedLink(t, repo, "social", enums.LinkCategorySocial, true, 0)
	seedLink(t, repo, "external", enums.LinkCategoryExternal, true, 0)

	social, err := repo.ListByCategory(context.Background(), enums.LinkCategorySocial)
	require.NoError(t, err)
	require.Len(t, social, 1)
	assert.Equal(t, "social", social[0].Title)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	repo := NewRepository(setupLinksTestDB(t))
	ctx := context.Background()

	link := seedLink(t, repo, "original", enums.LinkCategoryExternal, true, 0)

	link.Title = "renamed"
	link.IsActive = false
	require.NoError(t, repo.Update(ctx, link))

	got, err := repo.FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, link.ID))
	_, err = repo.FindByID(ctx, link.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
