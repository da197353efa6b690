package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/api/middleware"
	"github.com/teeshirtate/storefront-backend/api/responses"
	"github.com/teeshirtate/storefront-backend/api/validators"
	ordersvc "github.com/teeshirtate/storefront-backend/internal/orders"
	"github.com/teeshirtate/storefront-backend/pkg/db/models"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/pagination"
)

type orderItemRequest struct {
	LineID     string `json:"line_id,omitempty"`
	ProductID  string `json:"product_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Price      string `json:"price" validate:"required"`
	Image      string `json:"image,omitempty"`
	Category   string `json:"category,omitempty"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	PrintType  string `json:"print_type,omitempty"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Notes      string `json:"notes,omitempty"`
	UploadURL  string `json:"upload_url,omitempty"`
	UploadName string `json:"upload_name,omitempty"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes         string             `json:"notes,omitempty"`
}

// CreateOrder records the order snapshot taken at WhatsApp hand-off time.
// Logged-in customers get the order attached to their account; guests are
// recorded by name and phone only.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]models.OrderItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item price"))
				return
			}
			items = append(items, models.OrderItem{
				LineID:     item.LineID,
				ProductID:  item.ProductID,
				Name:       item.Name,
				Price:      price,
				Image:      item.Image,
				Category:   item.Category,
				Size:       item.Size,
				Color:      item.Color,
				PrintType:  item.PrintType,
				Quantity:   item.Quantity,
				Notes:      validators.SanitizeString(item.Notes, 500),
				UploadURL:  item.UploadURL,
				UploadName: item.UploadName,
			})
		}

		var customerID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				customerID = &parsed
			}
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			CustomerID:    customerID,
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			Items:         items,
			Notes:         validators.SanitizeString(payload.Notes, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), ordersvc.ListParams{
			Status: r.URL.Query().Get("status"),
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListMyOrders serves the order history for the authenticated customer.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "user context missing"))
			return
		}
		orders, err := svc.ListByCustomer(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}
		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
