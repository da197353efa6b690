package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/api/middleware"
	cartsvc "github.com/teeshirtate/storefront-backend/internal/cart"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

type stubCartService struct {
	cart       *cartsvc.Cart
	checkout   *cartsvc.CheckoutResult
	addedInput cartsvc.AddItemInput
	err        error
}

func (s *stubCartService) Get(ctx context.Context, cartID string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, cartID string, input cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	s.addedInput = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, cartID, lineID string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, cartID string) error {
	return s.err
}

func (s *stubCartService) Checkout(ctx context.Context, cartID string) (*cartsvc.CheckoutResult, error) {
	return s.checkout, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func cartContext(cartID string) context.Context {
	return middleware.WithCartID(context.Background(), cartID)
}

func TestAddCartItemParsesPayload(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.Cart{ID: "c1"}}
	body := `{"product_id":"p1","name":"تيشيرت","price":"99.00","size":"M","quantity":2,` +
		`"notes":"طباعة خلفية","upload_url":"/uploads/d.png","upload_name":"d.png"}`

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req = req.WithContext(cartContext("c1"))
	rec := httptest.NewRecorder()
	AddCartItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.addedInput.Price.Equal(decimal.RequireFromString("99.00")) {
		t.Fatalf("price not parsed, got %s", stub.addedInput.Price)
	}
	if stub.addedInput.Quantity != 2 || stub.addedInput.Size != "M" {
		t.Fatalf("unexpected input %+v", stub.addedInput)
	}
	if stub.addedInput.Notes != "طباعة خلفية" || stub.addedInput.UploadName != "d.png" {
		t.Fatalf("notes/upload fields not carried through, got %+v", stub.addedInput)
	}
}

func TestAddCartItemRejectsMissingFields(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.Cart{ID: "c1"}}
	body := `{"name":"بدون منتج","price":"10"}`

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req = req.WithContext(cartContext("c1"))
	rec := httptest.NewRecorder()
	AddCartItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutReturnsWhatsAppLink(t *testing.T) {
	stub := &stubCartService{checkout: &cartsvc.CheckoutResult{
		Message:     "مرحباً",
		WhatsAppURL: "https://wa.me/966500000000?text=...",
		Total:       decimal.NewFromInt(250),
		ItemCount:   3,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req = req.WithContext(cartContext("c1"))
	rec := httptest.NewRecorder()
	Checkout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data cartsvc.CheckoutResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(envelope.Data.WhatsAppURL, "https://wa.me/") {
		t.Fatalf("unexpected url %s", envelope.Data.WhatsAppURL)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req = req.WithContext(cartContext("c1"))
	rec := httptest.NewRecorder()
	Checkout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
}
