package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	orders []models.Order
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders = append(s.orders, *order)
	return order, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	var rows []models.Order
	for _, o := range s.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		rows = append(rows, o)
	}
	normalized := pagination.NormalizeLimit(params.Limit)
	if len(rows) > normalized {
		next := rows[normalized]
		return rows[:normalized], &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (s *stubOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, o := range s.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			rows = append(rows, o)
		}
	}
	return rows, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newOrdersService(t *testing.T, repo *stubOrdersRepo) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleItems() []models.OrderItem {
	return []models.OrderItem{
		{
			LineID:    "p1-M-أبيض-أمامية",
			ProductID: "p1",
			Name:      "تيشيرت وطني",
			Price:     decimal.NewFromInt(100),
			Size:      "M",
			Color:     "أبيض",
			PrintType: "أمامية",
			Quantity:  2,
		},
		{
			LineID:    "p2-L-أسود-خلفية",
			ProductID: "p2",
			Name:      "تيشيرت رياضي",
			Price:     decimal.NewFromInt(50),
			Size:      "L",
			Color:     "أسود",
			PrintType: "خلفية",
			Quantity:  1,
		},
	}
}

func TestCreateOrderSnapshotsItemsAndTotal(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newOrdersService(t, repo)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "سارة",
		CustomerEmail: "Sara@Example.com",
		Items:         sampleItems(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.Status != enums.OrderStatusNew {
		t.Fatalf("new orders must start as new, got %s", order.Status)
	}
	if !order.Total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected computed total 250, got %s", order.Total)
	}
	if order.CustomerEmail != "sara@example.com" {
		t.Fatalf("email should be lowercased, got %s", order.CustomerEmail)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected snapshot of 2 items, got %d", len(order.Items))
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newOrdersService(t, &stubOrdersRepo{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing name", CreateOrderInput{Items: sampleItems()}},
		{"no items", CreateOrderInput{CustomerName: "x"}},
		{"zero quantity", CreateOrderInput{
			CustomerName: "x",
			Items:        []models.OrderItem{{Name: "y", Price: decimal.NewFromInt(10)}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			var appErr *pkgerrors.Error
			if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateStatusAcceptsAnyTransition(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newOrdersService(t, repo)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{CustomerName: "س", Items: sampleItems()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Admins can jump straight to completed and back to cancelled.
	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("to completed: %v", err)
	}
	if updated.Status != enums.OrderStatusCompleted {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	updated, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("to cancelled: %v", err)
	}
	if updated.Status != enums.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatus("wat")); err == nil {
		t.Fatal("expected validation error for bogus status")
	}
	if _, err := svc.UpdateStatus(ctx, uuid.New(), enums.OrderStatusCompleted); err == nil {
		t.Fatal("expected not found for unknown order")
	}
}

func TestListFiltersByStatusAndPaginates(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newOrdersService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		order, err := svc.Create(ctx, CreateOrderInput{CustomerName: "س", Items: sampleItems()})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			if _, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCompleted); err != nil {
				t.Fatalf("update status: %v", err)
			}
		}
	}

	page, err := svc.List(ctx, ListParams{Status: "completed"})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(page.Orders) != 1 {
		t.Fatalf("expected 1 completed order, got %d", len(page.Orders))
	}

	page, err = svc.List(ctx, ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected a 2-order page, got %d", len(page.Orders))
	}
	if page.Cursor == "" {
		t.Fatal("expected a cursor for the next page")
	}

	if _, err := svc.List(ctx, ListParams{Status: "wat"}); err == nil {
		t.Fatal("expected validation error for bogus status filter")
	}
	if _, err := svc.List(ctx, ListParams{Cursor: "not-base64!"}); err == nil {
		t.Fatal("expected validation error for bogus cursor")
	}
}

func TestListByCustomer(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newOrdersService(t, repo)
	ctx := context.Background()

	customerID := uuid.New()
	if _, err := svc.Create(ctx, CreateOrderInput{
		CustomerID:   &customerID,
		CustomerName: "س",
		Items:        sampleItems(),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateOrderInput{CustomerName: "ضيف", Items: sampleItems()}); err != nil {
		t.Fatalf("create guest: %v", err)
	}

	rows, err := svc.ListByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 customer order, got %d", len(rows))
	}
}
