package controllers

import (
	"net/http"

	"github.com/teeshirtate/storefront-backend/api/middleware"
	"github.com/teeshirtate/storefront-backend/api/responses"
	"github.com/teeshirtate/storefront-backend/api/validators"
	"github.com/teeshirtate/storefront-backend/internal/admingate"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

type gateVerifyRequest struct {
	Password string `json:"password" validate:"required"`
}

// VerifyAdminGate checks the shared admin password and marks the session as
// stepped-up for the configured window.
func VerifyAdminGate(svc admingate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		var payload gateVerifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Verify(r.Context(), userID, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"verified": true})
	}
}

func AdminGateStatus(svc admingate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		verified, err := svc.IsVerified(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"verified": verified})
	}
}

// ClearAdminGate drops the step-up flag, forcing a fresh password prompt.
func ClearAdminGate(svc admingate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"verified": false})
	}
}
