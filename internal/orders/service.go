package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/pagination"
)

type ordersRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// ListParams filters the admin order listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// OrderList is one page of the admin listing plus the cursor for the next.
type OrderList struct {
	Orders []models.Order `json:"orders"`
	Cursor string         `json:"cursor,omitempty"`
}

// CreateOrderInput captures the order record taken alongside the WhatsApp
// hand-off. Items arrive as an immutable snapshot of the cart lines.
type CreateOrderInput struct {
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []models.OrderItem
	Notes         string
}

// Service exposes order recording and the admin tracking surface.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*OrderList, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo ordersRepository
	logg *logger.Logger
}

// NewService builds the orders service.
func NewService(repo ordersRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}

	total := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		CustomerID:    input.CustomerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Items:         input.Items,
		Total:         total,
		Status:        enums.OrderStatusNew,
		Notes:         input.Notes,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "order recorded")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderList, error) {
	query := listOrdersParams{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &OrderList{Orders: rows, Cursor: cursor}, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	return row, nil
}

// UpdateStatus moves the order to any valid status. Admins reconcile orders
// against WhatsApp threads manually, so no transition graph is enforced.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return order, nil
}
