package middleware

import (
	"context"
	"net/http"

	"github.com/teeshirtate/storefront-backend/api/responses"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

type gateChecker interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}

// AdminGate requires the shared-secret step-up on top of an admin login.
// The flag expires on its own, so a stale admin tab re-prompts instead of
// silently keeping access.
func AdminGate(gate gateChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ok, err := gate.IsVerified(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin gate"))
				return
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin verification required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
