package cart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeshirtate/storefront-backend/pkg/config"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

// Item is one cart line. LineID is the composite identity: the same product
// in a different size, color, or print type is a separate line.
type Item struct {
	LineID        string          `json:"line_id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	PrintType     string          `json:"print_type"`
	Quantity      int             `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
	UploadURL     string          `json:"upload_url,omitempty"`
	UploadName    string          `json:"upload_name,omitempty"`
	UploadPreview string          `json:"upload_preview,omitempty"`
}

// HasUpload reports whether this line carries a relayed custom design.
func (i Item) HasUpload() bool {
	return i.UploadURL != "" || i.UploadName != ""
}

// Cart is the stored snapshot for one visitor.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalPrice sums price times quantity across all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItems sums the quantities across all lines.
func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// AddItemInput describes the product variant being added.
type AddItemInput struct {
	ProductID     string
	Name          string
	Price         decimal.Decimal
	Image         string
	Category      string
	Size          string
	Color         string
	PrintType     string
	Quantity      int
	Notes         string
	UploadURL     string
	UploadName    string
	UploadPreview string
}

// CheckoutResult carries the WhatsApp hand-off artifacts. SeparateFiles is
// set when any line has an uploaded design: the deep link carries text only,
// so the customer must send the files in follow-up messages.
type CheckoutResult struct {
	Message       string          `json:"message"`
	WhatsAppURL   string          `json:"whatsapp_url"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	SeparateFiles bool            `json:"separate_files"`
}

type cartStore interface {
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Drop(ctx context.Context, cartID string) error
}

type checkoutMetrics interface {
	IncCheckout(outcome string)
}

// Service exposes the visitor cart: line management, totals, and the
// WhatsApp checkout deep link.
type Service interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	AddItem(ctx context.Context, cartID string, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, cartID, lineID string) (*Cart, error)
	Clear(ctx context.Context, cartID string) error
	Checkout(ctx context.Context, cartID string) (*CheckoutResult, error)
}

type service struct {
	store   cartStore
	metrics checkoutMetrics
	logg    *logger.Logger
	phone   string
}

// NewService builds a cart service. The WhatsApp phone comes from store config
// and is the only destination checkout can target.
func NewService(store cartStore, metrics checkoutMetrics, cfg config.StoreConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New("cart store required")
	}
	if strings.TrimSpace(cfg.WhatsAppPhone) == "" {
		return nil, errors.New("whatsapp phone required")
	}
	return &service{
		store:   store,
		metrics: metrics,
		logg:    logg,
		phone:   strings.TrimSpace(cfg.WhatsAppPhone),
	}, nil
}

func (s *service) Get(ctx context.Context, cartID string) (*Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, cartID string, input AddItemInput) (*Cart, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lineID := LineID(input.ProductID, input.Size, input.Color, input.PrintType)
	quantity := clampQuantity(input.Quantity)

	merged := false
	for i := range cart.Items {
		if cart.Items[i].LineID == lineID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, Item{
			LineID:        lineID,
			ProductID:     input.ProductID,
			Name:          strings.TrimSpace(input.Name),
			Price:         input.Price,
			Image:         input.Image,
			Category:      input.Category,
			Size:          input.Size,
			Color:         input.Color,
			PrintType:     input.PrintType,
			Quantity:      quantity,
			Notes:         strings.TrimSpace(input.Notes),
			UploadURL:     input.UploadURL,
			UploadName:    input.UploadName,
			UploadPreview: input.UploadPreview,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	quantity = clampQuantity(quantity)
	found := false
	for i := range cart.Items {
		if cart.Items[i].LineID == lineID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, lineID string) (*Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.LineID == lineID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	cart.Items = kept

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if err := s.store.Drop(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Checkout(ctx context.Context, cartID string) (*CheckoutResult, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		if s.metrics != nil {
			s.metrics.IncCheckout("empty_cart")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	message := BuildWhatsAppMessage(cart)
	separateFiles := false
	for _, item := range cart.Items {
		if item.HasUpload() {
			separateFiles = true
			break
		}
	}
	result := &CheckoutResult{
		Message:       message,
		WhatsAppURL:   fmt.Sprintf("https://wa.me/%s?text=%s", s.phone, url.QueryEscape(message)),
		Total:         cart.TotalPrice(),
		ItemCount:     cart.TotalItems(),
		SeparateFiles: separateFiles,
	}

	if s.metrics != nil {
		s.metrics.IncCheckout("success")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, cartID), "checkout link generated")
	}
	return result, nil
}

// LineID builds the composite line identity from the product and its chosen
// variant attributes.
func LineID(productID, size, color, printType string) string {
	return strings.Join([]string{productID, size, color, printType}, "-")
}

// BuildWhatsAppMessage renders the Arabic order message the customer sends
// to the store. Per-line notes and attached custom designs get their own
// lines, and a closing note reminds the customer that design files travel in
// separate messages.
func BuildWhatsAppMessage(cart *Cart) string {
	var b strings.Builder
	b.WriteString("مرحباً، أريد طلب المنتجات التالية:\n\n")
	hasUploads := false
	for i, item := range cart.Items {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Name))
		if item.Size != "" {
			b.WriteString(fmt.Sprintf("   المقاس: %s\n", item.Size))
		}
		if item.Color != "" {
			b.WriteString(fmt.Sprintf("   اللون: %s\n", item.Color))
		}
		if item.PrintType != "" {
			b.WriteString(fmt.Sprintf("   نوع الطباعة: %s\n", item.PrintType))
		}
		b.WriteString(fmt.Sprintf("   الكمية: %d\n", item.Quantity))
		b.WriteString(fmt.Sprintf("   السعر: %s ر.س\n", item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		if item.Notes != "" {
			b.WriteString(fmt.Sprintf("   تفاصيل إضافية: %s\n", item.Notes))
		}
		if item.HasUpload() {
			name := item.UploadName
			if name == "" {
				name = item.UploadURL
			}
			b.WriteString(fmt.Sprintf("   🎨 تصميم مخصص مرفق: %s\n", name))
			hasUploads = true
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("الإجمالي: %s ر.س\n\n", cart.TotalPrice()))
	if hasUploads {
		b.WriteString("📎 ملاحظة: يوجد تصاميم مخصصة مرفقة مع الطلب\n")
		b.WriteString("سأقوم بإرسال ملفات التصاميم في رسائل منفصلة\n\n")
	}
	b.WriteString("شكراً لكم")
	return b.String()
}

func (s *service) load(ctx context.Context, cartID string) (*Cart, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	cart, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart == nil {
		cart = &Cart{ID: cartID}
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// clampQuantity keeps quantities at one or more. Zero or negative input is a
// client bug, not a removal request.
func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
