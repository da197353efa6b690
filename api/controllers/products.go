package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/api/responses"
	"github.com/teeshirtate/storefront-backend/api/validators"
	"github.com/teeshirtate/storefront-backend/internal/catalog"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

// ListProducts serves the public catalog. The optional flag parameter narrows
// the list to one merchandising shelf (is_featured, is_new, ...), accepting
// the legacy camelCase names older storefront builds still send.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawFlag := strings.TrimSpace(r.URL.Query().Get("flag"))
		if rawFlag != "" {
			flag, err := enums.ParseProductFlag(rawFlag)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flag"))
				return
			}
			limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			products, err := svc.ListByFlag(r.Context(), flag, limit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, products)
			return
		}

		if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
			products, err := svc.SearchProducts(r.Context(), query)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, products)
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.CanonicalizeProductBody(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := validators.CanonicalizeProductBody(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type productRequest struct {
	Name           string   `json:"name" validate:"required"`
	NameEn         string   `json:"name_en,omitempty"`
	Price          string   `json:"price" validate:"required"`
	OriginalPrice  *string  `json:"original_price,omitempty"`
	Image          string   `json:"image,omitempty"`
	Category       string   `json:"category,omitempty"`
	CategoryEn     string   `json:"category_en,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	Description    string   `json:"description,omitempty"`
	DescriptionEn  string   `json:"description_en,omitempty"`
	Sizes          []string `json:"sizes,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	PrintTypes     []string `json:"print_types,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	IsFeatured     bool     `json:"is_featured,omitempty"`
	IsNew          bool     `json:"is_new,omitempty"`
	IsBestSeller   bool     `json:"is_best_seller,omitempty"`
	IsOnSale       bool     `json:"is_on_sale,omitempty"`
	SalePercentage *int     `json:"sale_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func (p productRequest) toInput() (catalog.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	var originalPrice *decimal.Decimal
	if p.OriginalPrice != nil && strings.TrimSpace(*p.OriginalPrice) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*p.OriginalPrice))
		if err != nil {
			return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid original price")
		}
		originalPrice = &parsed
	}

	var categoryID *uuid.UUID
	if p.CategoryID != nil && strings.TrimSpace(*p.CategoryID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*p.CategoryID))
		if err != nil {
			return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		categoryID = &parsed
	}

	return catalog.ProductInput{
		Name:           p.Name,
		NameEn:         p.NameEn,
		Price:          price,
		OriginalPrice:  originalPrice,
		Image:          p.Image,
		Category:       p.Category,
		CategoryEn:     p.CategoryEn,
		CategoryID:     categoryID,
		Description:    p.Description,
		DescriptionEn:  p.DescriptionEn,
		Sizes:          p.Sizes,
		Colors:         p.Colors,
		PrintTypes:     p.PrintTypes,
		Notes:          p.Notes,
		IsFeatured:     p.IsFeatured,
		IsNew:          p.IsNew,
		IsBestSeller:   p.IsBestSeller,
		IsOnSale:       p.IsOnSale,
		SalePercentage: p.SalePercentage,
	}, nil
}
