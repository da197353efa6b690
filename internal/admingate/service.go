package admingate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	redisclient "github.com/teeshirtate/storefront-backend/pkg/redis"
	"github.com/teeshirtate/storefront-backend/pkg/security"
)

type gateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AdminGateKey(userID string) string
}

// Service is the step-up gate in front of the admin dashboard. An admin role
// alone is not enough; the shared gate password must be re-entered per
// session and the verification expires on its own.
type Service interface {
	Verify(ctx context.Context, userID, password string) error
	IsVerified(ctx context.Context, userID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

type service struct {
	store  gateStore
	secret string
	ttl    time.Duration
	logg   *logger.Logger
}

// NewService builds the admin gate service from its configured shared secret.
func NewService(store gateStore, cfg config.AdminGateConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New("gate store required")
	}
	if cfg.Password == "" {
		return nil, errors.New("gate password required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("gate ttl must be positive")
	}
	return &service{
		store:  store,
		secret: cfg.Password,
		ttl:    cfg.TTL,
		logg:   logg,
	}, nil
}

func (s *service) Verify(ctx context.Context, userID, password string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if !security.VerifySharedSecret(password, s.secret) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID), "admin gate password rejected")
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect admin password")
	}

	if err := s.store.Set(ctx, s.store.AdminGateKey(userID), "1", s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist gate verification")
	}
	return nil
}

func (s *service) IsVerified(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if _, err := s.store.Get(ctx, s.store.AdminGateKey(userID)); err != nil {
		if redisclient.IsNil(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read gate verification")
	}
	return true, nil
}

func (s *service) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := s.store.Del(ctx, s.store.AdminGateKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear gate verification")
	}
	return nil
}
