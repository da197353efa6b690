package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubGate struct {
	verified map[string]bool
}

func (s stubGate) IsVerified(ctx context.Context, userID string) (bool, error) {
	return s.verified[userID], nil
}

func TestAdminGateBlocksUnverifiedUser(t *testing.T) {
	handler := AdminGate(stubGate{verified: map[string]bool{}}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminGateAllowsVerifiedUser(t *testing.T) {
	handler := AdminGate(stubGate{verified: map[string]bool{"u1": true}}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminGateRequiresAuthenticatedUser(t *testing.T) {
	handler := AdminGate(stubGate{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
