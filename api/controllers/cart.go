package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/api/middleware"
	"github.com/teeshirtate/storefront-backend/api/responses"
	"github.com/teeshirtate/storefront-backend/api/validators"
	"github.com/teeshirtate/storefront-backend/internal/cart"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

func cartIDFromRequest(r *http.Request) (string, error) {
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart id missing")
	}
	return cartID, nil
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		current, err := svc.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

type addItemRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Price         string `json:"price" validate:"required"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category,omitempty"`
	Size          string `json:"size,omitempty"`
	Color         string `json:"color,omitempty"`
	PrintType     string `json:"print_type,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
	Notes         string `json:"notes,omitempty"`
	UploadURL     string `json:"upload_url,omitempty"`
	UploadName    string `json:"upload_name,omitempty"`
	UploadPreview string `json:"upload_preview,omitempty"`
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := decimal.NewFromString(strings.TrimSpace(payload.Price))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}
		current, err := svc.AddItem(r.Context(), cartID, cart.AddItemInput{
			ProductID:     payload.ProductID,
			Name:          payload.Name,
			Price:         price,
			Image:         payload.Image,
			Category:      payload.Category,
			Size:          payload.Size,
			Color:         payload.Color,
			PrintType:     payload.PrintType,
			Quantity:      payload.Quantity,
			Notes:         validators.SanitizeString(payload.Notes, 500),
			UploadURL:     payload.UploadURL,
			UploadName:    payload.UploadName,
			UploadPreview: payload.UploadPreview,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

type updateQuantityRequest struct {
	LineID   string `json:"line_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required"`
}

func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		current, err := svc.UpdateQuantity(r.Context(), cartID, payload.LineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

type removeItemRequest struct {
	LineID string `json:"line_id" validate:"required"`
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload removeItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		current, err := svc.RemoveItem(r.Context(), cartID, payload.LineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// Checkout builds the Arabic WhatsApp order message and deep link for the
// current cart. The cart itself stays intact until the browser confirms the
// hand-off and clears it.
func Checkout(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Checkout(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
