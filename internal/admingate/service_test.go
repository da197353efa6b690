package admingate

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
)

type memoryGateStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryGateStore() *memoryGateStore {
	return &memoryGateStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryGateStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = "1"
	m.ttls[key] = ttl
	return nil
}

func (m *memoryGateStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryGateStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryGateStore) AdminGateKey(userID string) string {
	return "gate:" + userID
}

func newGateService(t *testing.T, store gateStore) Service {
	t.Helper()
	svc, err := NewService(store, config.AdminGateConfig{
		Password: "admin2024",
		TTL:      12 * time.Hour,
	}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestVerifyCorrectPassword(t *testing.T) {
	store := newMemoryGateStore()
	svc := newGateService(t, store)
	ctx := context.Background()

	if err := svc.Verify(ctx, "user-1", "admin2024"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	ok, err := svc.IsVerified(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("expected verified, ok=%v err=%v", ok, err)
	}
	if store.ttls["gate:user-1"] != 12*time.Hour {
		t.Fatalf("gate flag must carry the configured ttl, got %v", store.ttls["gate:user-1"])
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	svc := newGateService(t, newMemoryGateStore())
	ctx := context.Background()

	err := svc.Verify(ctx, "user-1", "admin2025")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	ok, err := svc.IsVerified(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("failed attempt must not verify, ok=%v err=%v", ok, err)
	}
}

func TestClearDropsVerification(t *testing.T) {
	svc := newGateService(t, newMemoryGateStore())
	ctx := context.Background()

	if err := svc.Verify(ctx, "user-1", "admin2024"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	ok, err := svc.IsVerified(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("expected cleared gate, ok=%v err=%v", ok, err)
	}
}

func TestVerificationIsPerUser(t *testing.T) {
	svc := newGateService(t, newMemoryGateStore())
	ctx := context.Background()

	if err := svc.Verify(ctx, "user-1", "admin2024"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	ok, err := svc.IsVerified(ctx, "user-2")
	if err != nil || ok {
		t.Fatalf("gate must be per user, ok=%v err=%v", ok, err)
	}
}
