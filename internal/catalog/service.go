package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/text"
)

type productsRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByFlag(ctx context.Context, flag enums.ProductFlag, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type categoriesRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type feedCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogFeedKey(scope string) string
}

type fallbackMetrics interface {
	IncCatalogFallback(reason string)
}

// HomeCategory is a storefront section: a named category with the products
// resolved into it. Dynamic sections are synthesized from product category
// strings that match no managed category.
type HomeCategory struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Slug     string           `json:"slug"`
	Dynamic  bool             `json:"dynamic"`
	Products []models.Product `json:"products"`
}

// ProductInput holds the canonical fields for creating or updating a product.
type ProductInput struct {
	Name           string
	NameEn         string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	Image          string
	Category       string
	CategoryEn     string
	CategoryID     *uuid.UUID
	Description    string
	DescriptionEn  string
	Sizes          []string
	Colors         []string
	PrintTypes     []string
	Notes          string
	IsFeatured     bool
	IsNew          bool
	IsBestSeller   bool
	IsOnSale       bool
	SalePercentage *int
}

// CategoryInput holds the fields for creating or updating a category.
type CategoryInput struct {
	Name string
	Slug string
}

// Service exposes the product catalog: listing, flag shelves, CRUD, search,
// and the home page category sections.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListByFlag(ctx context.Context, flag enums.ProductFlag, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	HomeCategories(ctx context.Context) ([]HomeCategory, error)
	InvalidateFeed(ctx context.Context) error
}

type service struct {
	repo     productsRepository
	catRepo  categoriesRepository
	cache    feedCache
	metrics  fallbackMetrics
	logg     *logger.Logger
	cacheTTL time.Duration
	maxImage int
}

// NewService builds a catalog service backed by the provided repositories and feed cache.
func NewService(repo productsRepository, catRepo categoriesRepository, cache feedCache, metrics fallbackMetrics, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("products repository required")
	}
	if catRepo == nil {
		return nil, errors.New("categories repository required")
	}
	return &service{
		repo:     repo,
		catRepo:  catRepo,
		cache:    cache,
		metrics:  metrics,
		logg:     logg,
		cacheTTL: cfg.FeedCacheTTL,
		maxImage: cfg.MaxInlineImageBytes,
	}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if cached := s.cachedFeed(ctx); cached != nil {
		return cached, nil
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		// The storefront always renders. A broken read serves the fixed
		// sample product instead of an error page.
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "product feed read failed, serving sample")
		}
		return []models.Product{sampleProduct()}, nil
	}
	if len(rows) == 0 {
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("empty_catalog")
		}
		return []models.Product{sampleProduct()}, nil
	}

	s.storeFeed(ctx, rows)
	return rows, nil
}

func (s *service) ListByFlag(ctx context.Context, flag enums.ProductFlag, limit int) ([]models.Product, error) {
	if !flag.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product flag")
	}

	rows, err := s.repo.ListByFlag(ctx, flag, limit)
	if err == nil {
		return rows, nil
	}

	// Degraded tier: the flag column query can fail on older schemas, so
	// fall back to filtering the full list in memory.
	if s.metrics != nil {
		s.metrics.IncCatalogFallback("memory_filter")
	}
	if s.logg != nil {
		s.logg.Warn(ctx, "flag query failed, filtering in memory")
	}

	all, listErr := s.repo.List(ctx)
	if listErr != nil {
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "flag fallback read failed, serving empty shelf")
		}
		return []models.Product{}, nil
	}

	filtered := make([]models.Product, 0, len(all))
	for _, row := range all {
		if hasFlag(row, flag) {
			filtered = append(filtered, row)
			if limit > 0 && len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return row, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validateProductInput(input); err != nil {
		return nil, err
	}

	product := s.productFromInput(input)
	if err := s.resolveCategoryName(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	_ = s.InvalidateFeed(ctx)
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	updated := s.productFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Image == "" {
		updated.Image = existing.Image
	}
	if err := s.resolveCategoryName(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	_ = s.InvalidateFeed(ctx)
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return s.InvalidateFeed(ctx)
}

func (s *service) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListProducts(ctx)
	}
	rows, err := s.repo.Search(ctx, query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "search read failed, serving empty result")
		}
		return []models.Product{}, nil
	}
	return rows, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.catRepo.List(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "category read failed, serving empty list")
		}
		return []models.Category{}, nil
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = text.Slugify(name)
	}

	created, err := s.catRepo.Create(ctx, &models.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	_ = s.InvalidateFeed(ctx)
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	existing, err := s.catRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup category")
	}

	existing.Name = name
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		existing.Slug = slug
	} else {
		existing.Slug = text.Slugify(name)
	}

	if err := s.catRepo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	_ = s.InvalidateFeed(ctx)
	return existing, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if _, err := s.catRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup category")
	}
	if err := s.catRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return s.InvalidateFeed(ctx)
}

func (s *service) HomeCategories(ctx context.Context) ([]HomeCategory, error) {
	categories, err := s.catRepo.List(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "home feed category read failed, serving empty feed")
		}
		return []HomeCategory{}, nil
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		// Managed sections still render, just without products.
		if s.metrics != nil {
			s.metrics.IncCatalogFallback("read_failure")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "home feed product read failed, serving bare sections")
		}
		products = nil
	}

	sections := make([]HomeCategory, len(categories))
	index := make(map[uuid.UUID]int, len(categories))
	for i, cat := range categories {
		sections[i] = HomeCategory{
			ID:   cat.ID.String(),
			Name: cat.Name,
			Slug: cat.Slug,
		}
		index[cat.ID] = i
	}

	type dynamicGroup struct {
		section  HomeCategory
		earliest time.Time
	}
	dynamics := make(map[string]*dynamicGroup)
	dynamicOrder := []string{}

	for _, product := range products {
		if idx, ok := matchCategory(product, categories, index); ok {
			sections[idx].Products = append(sections[idx].Products, product)
			continue
		}

		name := strings.TrimSpace(product.Category)
		if name == "" {
			continue
		}
		key := text.Normalize(name)
		group, ok := dynamics[key]
		if !ok {
			group = &dynamicGroup{
				section: HomeCategory{
					ID:      text.Slugify(name),
					Name:    name,
					Slug:    text.Slugify(name),
					Dynamic: true,
				},
				earliest: product.CreatedAt,
			}
			dynamics[key] = group
			dynamicOrder = append(dynamicOrder, key)
		}
		group.section.Products = append(group.section.Products, product)
		if product.CreatedAt.Before(group.earliest) {
			group.earliest = product.CreatedAt
		}
	}

	// Dynamic sections trail the managed ones, newest group first.
	for i := 0; i < len(dynamicOrder); i++ {
		for j := i + 1; j < len(dynamicOrder); j++ {
			if dynamics[dynamicOrder[j]].earliest.After(dynamics[dynamicOrder[i]].earliest) {
				dynamicOrder[i], dynamicOrder[j] = dynamicOrder[j], dynamicOrder[i]
			}
		}
	}
	for _, key := range dynamicOrder {
		sections = append(sections, dynamics[key].section)
	}

	return sections, nil
}

// InvalidateFeed drops the cached product feed so the next read hits the DB.
func (s *service) InvalidateFeed(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, s.cache.CatalogFeedKey("all"))
}

// matchCategory resolves a product into a managed category using a cascade:
// category_id link, exact name, whitespace/case-normalized name, then slug
// with a URL-decode retry for links pasted out of the browser bar.
func matchCategory(product models.Product, categories []models.Category, index map[uuid.UUID]int) (int, bool) {
	if product.CategoryID != nil {
		if idx, ok := index[*product.CategoryID]; ok {
			return idx, true
		}
	}
	for i, cat := range categories {
		if product.Category == cat.Name {
			return i, true
		}
	}
	for i, cat := range categories {
		if text.EqualFold(product.Category, cat.Name) {
			return i, true
		}
	}
	for i, cat := range categories {
		if text.Slugify(product.Category) == cat.Slug || text.EqualDecoded(product.Category, cat.Name) {
			return i, true
		}
	}
	return 0, false
}

func (s *service) validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.SalePercentage != nil && (*input.SalePercentage < 0 || *input.SalePercentage > 100) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale percentage must be between 0 and 100")
	}
	return nil
}

func (s *service) productFromInput(input ProductInput) *models.Product {
	return &models.Product{
		Name:           strings.TrimSpace(input.Name),
		NameEn:         strings.TrimSpace(input.NameEn),
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		Image:          s.stripOversizedInlineImage(input.Image),
		Category:       strings.TrimSpace(input.Category),
		CategoryEn:     strings.TrimSpace(input.CategoryEn),
		CategoryID:     input.CategoryID,
		Description:    input.Description,
		DescriptionEn:  input.DescriptionEn,
		Sizes:          pq.StringArray(input.Sizes),
		Colors:         pq.StringArray(input.Colors),
		PrintTypes:     pq.StringArray(input.PrintTypes),
		Notes:          input.Notes,
		IsFeatured:     input.IsFeatured,
		IsNew:          input.IsNew,
		IsBestSeller:   input.IsBestSeller,
		IsOnSale:       input.IsOnSale,
		SalePercentage: input.SalePercentage,
	}
}

// resolveCategoryName backfills the denormalized category name from the
// linked category when the caller only sent category_id.
func (s *service) resolveCategoryName(ctx context.Context, product *models.Product) error {
	if product.CategoryID == nil || product.Category != "" {
		return nil
	}
	cat, err := s.catRepo.FindByID(ctx, *product.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category_id does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup category")
	}
	product.Category = cat.Name
	return nil
}

// stripOversizedInlineImage drops base64 data URLs too large to store inline.
func (s *service) stripOversizedInlineImage(image string) string {
	if s.maxImage > 0 && strings.HasPrefix(image, "data:") && len(image) > s.maxImage {
		return ""
	}
	return image
}

func hasFlag(product models.Product, flag enums.ProductFlag) bool {
	switch flag {
	case enums.ProductFlagFeatured:
		return product.IsFeatured
	case enums.ProductFlagNew:
		return product.IsNew
	case enums.ProductFlagBestSeller:
		return product.IsBestSeller
	case enums.ProductFlagOnSale:
		return product.IsOnSale
	default:
		return false
	}
}

func (s *service) cachedFeed(ctx context.Context) []models.Product {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CatalogFeedKey("all"))
	if err != nil || raw == "" {
		return nil
	}
	var rows []models.Product
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return rows
}

func (s *service) storeFeed(ctx context.Context, rows []models.Product) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CatalogFeedKey("all"), string(raw), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "caching product feed failed")
	}
}

// sampleProduct is served when the catalog is completely empty so the
// storefront never renders a blank grid.
func sampleProduct() models.Product {
	return models.Product{
		ID:          uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Name:        "تيشيرت تجريبي",
		NameEn:      "Sample T-Shirt",
		Price:       decimal.NewFromInt(99),
		Image:       "/placeholder.svg",
		Category:    "تصاميم كلاسيكية",
		Description: "منتج تجريبي يظهر عندما يكون المتجر فارغاً",
		Sizes:       pq.StringArray{"S", "M", "L", "XL"},
		Colors:      pq.StringArray{"أبيض", "أسود"},
		PrintTypes:  pq.StringArray{"طباعة أمامية"},
		IsNew:       true,
	}
}
