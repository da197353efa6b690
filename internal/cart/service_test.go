package cart

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
)

type memoryStore struct {
	carts map[string]*Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: make(map[string]*Cart)}
}

func (m *memoryStore) Load(ctx context.Context, cartID string) (*Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]Item(nil), cart.Items...)
	return &copied, nil
}

func (m *memoryStore) Save(ctx context.Context, cart *Cart) error {
	copied := *cart
	copied.Items = append([]Item(nil), cart.Items...)
	m.carts[cart.ID] = &copied
	return nil
}

func (m *memoryStore) Drop(ctx context.Context, cartID string) error {
	delete(m.carts, cartID)
	return nil
}

type stubCheckoutMetrics struct {
	outcomes []string
}

func (s *stubCheckoutMetrics) IncCheckout(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

func newCartService(t *testing.T, store cartStore, metrics checkoutMetrics) Service {
	t.Helper()
	svc, err := NewService(store, metrics, config.StoreConfig{
		Name:          "تيشيرتاتي",
		WhatsAppPhone: "966500000000",
	}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddItemMergesSameVariant(t *testing.T) {
	svc := newCartService(t, newMemoryStore(), nil)
	ctx := context.Background()

	input := AddItemInput{
		ProductID: "p1",
		Name:      "تيشيرت أبيض",
		Price:     decimal.NewFromInt(100),
		Size:      "M",
		Color:     "أبيض",
		PrintType: "أمامية",
		Quantity:  1,
	}
	if _, err := svc.AddItem(ctx, "c1", input); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "c1", input)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("same variant should merge into one line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", cart.Items[0].Quantity)
	}

	// A different size is its own line.
	input.Size = "L"
	cart, err = svc.AddItem(ctx, "c1", input)
	if err != nil {
		t.Fatalf("third add: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("different size should be a new line, got %d lines", len(cart.Items))
	}
}

func TestTotalsAcrossLines(t *testing.T) {
	svc := newCartService(t, newMemoryStore(), nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p1", Name: "أ", Price: decimal.NewFromInt(100), Quantity: 1,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p2", Name: "ب", Price: decimal.NewFromInt(50), Quantity: 2,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if !cart.TotalPrice().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected total 200, got %s", cart.TotalPrice())
	}
	if cart.TotalItems() != 3 {
		t.Fatalf("expected 3 items, got %d", cart.TotalItems())
	}
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	svc := newCartService(t, newMemoryStore(), nil)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p1", Name: "أ", Price: decimal.NewFromInt(100), Quantity: 3,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err = svc.UpdateQuantity(ctx, "c1", cart.Items[0].LineID, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("zero quantity should clamp to 1, got %d", cart.Items[0].Quantity)
	}

	if _, err := svc.UpdateQuantity(ctx, "c1", "missing-line", 2); err == nil {
		t.Fatal("expected not found for unknown line")
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	store := newMemoryStore()
	svc := newCartService(t, store, nil)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p1", Name: "أ", Price: decimal.NewFromInt(100), Quantity: 1,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err = svc.RemoveItem(ctx, "c1", cart.Items[0].LineID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}

	if err := svc.Clear(ctx, "c1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := store.carts["c1"]; ok {
		t.Fatal("clear should drop the stored cart")
	}
}

func TestCheckoutBuildsArabicWhatsAppLink(t *testing.T) {
	metrics := &stubCheckoutMetrics{}
	svc := newCartService(t, newMemoryStore(), metrics)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p1",
		Name:      "تيشيرت وطني",
		Price:     decimal.NewFromInt(100),
		Size:      "M",
		Color:     "أخضر",
		PrintType: "أمامية",
		Quantity:  1,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := svc.Checkout(ctx, "c1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	for _, fragment := range []string{
		"مرحباً، أريد طلب المنتجات التالية:",
		"1. تيشيرت وطني",
		"المقاس: M",
		"اللون: أخضر",
		"نوع الطباعة: أمامية",
		"الكمية: 1",
		"السعر: 100 ر.س",
		"الإجمالي: 100 ر.س",
		"شكراً لكم",
	} {
		if !strings.Contains(result.Message, fragment) {
			t.Errorf("message missing %q:\n%s", fragment, result.Message)
		}
	}

	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/966500000000?text=") {
		t.Fatalf("unexpected deep link %s", result.WhatsAppURL)
	}
	if strings.ContainsAny(strings.TrimPrefix(result.WhatsAppURL, "https://wa.me/966500000000?text="), " \n") {
		t.Fatal("message must be URL-encoded in the deep link")
	}
	if !result.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected total %s", result.Total)
	}
	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != "success" {
		t.Fatalf("expected success metric, got %v", metrics.outcomes)
	}
}

func TestCheckoutRendersNotesAndDesignMarker(t *testing.T) {
	svc := newCartService(t, newMemoryStore(), nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID:  "p1",
		Name:       "تيشيرت مخصص",
		Price:      decimal.NewFromInt(80),
		Size:       "L",
		Quantity:   1,
		Notes:      "طباعة على الجهتين",
		UploadURL:  "/uploads/1700000000000-123456-design.png",
		UploadName: "design.png",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := svc.Checkout(ctx, "c1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	for _, fragment := range []string{
		"تفاصيل إضافية: طباعة على الجهتين",
		"🎨 تصميم مخصص مرفق: design.png",
		"📎 ملاحظة: يوجد تصاميم مخصصة مرفقة مع الطلب",
		"سأقوم بإرسال ملفات التصاميم في رسائل منفصلة",
	} {
		if !strings.Contains(result.Message, fragment) {
			t.Errorf("message missing %q:\n%s", fragment, result.Message)
		}
	}
	if !result.SeparateFiles {
		t.Fatal("expected separate_files warning when a line carries a design")
	}
}

func TestCheckoutWithoutUploadsSkipsFilesNote(t *testing.T) {
	svc := newCartService(t, newMemoryStore(), nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "c1", AddItemInput{
		ProductID: "p1", Name: "أ", Price: decimal.NewFromInt(50), Quantity: 1,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := svc.Checkout(ctx, "c1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.SeparateFiles {
		t.Fatal("separate_files must stay false without uploads")
	}
	if strings.Contains(result.Message, "رسائل منفصلة") {
		t.Fatalf("files note should not render without uploads:\n%s", result.Message)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	metrics := &stubCheckoutMetrics{}
	svc := newCartService(t, newMemoryStore(), metrics)

	_, err := svc.Checkout(context.Background(), "c1")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != "empty_cart" {
		t.Fatalf("expected empty_cart metric, got %v", metrics.outcomes)
	}
}
