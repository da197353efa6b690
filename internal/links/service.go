package links

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

type linksRepository interface {
	Create(ctx context.Context, link *models.Link) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	ListActive(ctx context.Context) ([]models.Link, error)
	ListByCategory(ctx context.Context, category enums.LinkCategory) ([]models.Link, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Link, error)
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LinkInput carries admin-submitted link fields.
type LinkInput struct {
	Title       string
	URL         string
	Description string
	Icon        string
	Category    string
	IsActive    *bool
	SortOrder   int
}

// Service manages the curated link list rendered in the storefront footer.
type Service interface {
	Create(ctx context.Context, input LinkInput) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	ListActive(ctx context.Context) ([]models.Link, error)
	ListByCategory(ctx context.Context, category string) ([]models.Link, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Link, error)
	Update(ctx context.Context, id uuid.UUID, input LinkInput) (*models.Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo linksRepository
	logg *logger.Logger
}

// NewService builds the links service.
func NewService(repo linksRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("links repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input LinkInput) (*models.Link, error) {
	category, err := validateLinkInput(input)
	if err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	link := &models.Link{
		Title:       strings.TrimSpace(input.Title),
		URL:         strings.TrimSpace(input.URL),
		Description: strings.TrimSpace(input.Description),
		Icon:        strings.TrimSpace(input.Icon),
		Category:    category,
		IsActive:    active,
		SortOrder:   input.SortOrder,
	}

	created, err := s.repo.Create(ctx, link)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create link")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "link created")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Link, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list links")
	}
	return rows, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Link, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active links")
	}
	return rows, nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]models.Link, error) {
	parsed, err := enums.ParseLinkCategory(category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid link category")
	}
	rows, err := s.repo.ListByCategory(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list links by category")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "link id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup link")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input LinkInput) (*models.Link, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "link id is required")
	}
	category, err := validateLinkInput(input)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup link")
	}

	link.Title = strings.TrimSpace(input.Title)
	link.URL = strings.TrimSpace(input.URL)
	link.Description = strings.TrimSpace(input.Description)
	link.Icon = strings.TrimSpace(input.Icon)
	link.Category = category
	link.SortOrder = input.SortOrder
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update link")
	}
	return link, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "link id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup link")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete link")
	}
	return nil
}

func validateLinkInput(input LinkInput) (enums.LinkCategory, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "link title is required")
	}
	rawURL := strings.TrimSpace(input.URL)
	if rawURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "link url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "" && parsed.Host == "") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "link url is malformed")
	}

	category := enums.LinkCategoryExternal
	if strings.TrimSpace(input.Category) != "" {
		category, err = enums.ParseLinkCategory(input.Category)
		if err != nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid link category")
		}
	}
	return category, nil
}
