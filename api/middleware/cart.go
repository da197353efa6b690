package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

const cartIDHeader = "X-Cart-Id"

// CartSession resolves the browser-held cart identifier. First-time visitors
// get a fresh ID echoed back in the response header; the storefront persists
// it in localStorage and replays it on every call.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := r.Header.Get(cartIDHeader)
			if cartID == "" {
				cartID = uuid.NewString()
			}

			w.Header().Set(cartIDHeader, cartID)

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
