package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/teeshirtate/storefront-backend/pkg/auth"
	"github.com/teeshirtate/storefront-backend/pkg/auth/session"
	"github.com/teeshirtate/storefront-backend/pkg/config"
	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/security"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
	CountByRole(ctx context.Context, role enums.UserRole) (int64, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput holds the signup fields.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session is an authenticated user plus the token pair issued for them.
type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Service exposes registration, login, refresh, and the admin customer list.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListCustomers(ctx context.Context) ([]models.User, error)
	EnsureDefaultAdmin(ctx context.Context) error
}

type service struct {
	repo     usersRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	passCfg  config.PasswordConfig
	storeCfg config.StoreConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(repo usersRepository, sessions sessionManager, jwtCfg config.JWTConfig, passCfg config.PasswordConfig, storeCfg config.StoreConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("users repository required")
	}
	if sessions == nil {
		return nil, errors.New("session manager required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		passCfg:  passCfg,
		storeCfg: storeCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	hash, err := security.HashPassword(input.Password, s.passCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueSession(ctx, user)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueSession(ctx, user)
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &Session{User: user, AccessToken: token, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]models.User, error) {
	rows, err := s.repo.ListByRole(ctx, enums.UserRoleCustomer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return rows, nil
}

// EnsureDefaultAdmin seeds the configured admin account on first boot so the
// store is never locked out of its own dashboard.
func (s *service) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.repo.CountByRole(ctx, enums.UserRoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(s.storeCfg.DefaultAdminPassword, s.passCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash default admin password")
	}

	admin, err := s.repo.Create(ctx, &models.User{
		Name:         s.storeCfg.DefaultAdminName,
		Email:        strings.ToLower(s.storeCfg.DefaultAdminEmail),
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default admin")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, admin.ID.String()), "default admin account seeded")
	}
	return nil
}

func (s *service) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refresh session")
	}

	return &Session{User: user, AccessToken: token, RefreshToken: refresh}, nil
}
