package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teeshirtate/storefront-backend/api/controllers"
	"github.com/teeshirtate/storefront-backend/api/middleware"
	"github.com/teeshirtate/storefront-backend/internal/admingate"
	authsvc "github.com/teeshirtate/storefront-backend/internal/auth"
	cartsvc "github.com/teeshirtate/storefront-backend/internal/cart"
	"github.com/teeshirtate/storefront-backend/internal/catalog"
	linksvc "github.com/teeshirtate/storefront-backend/internal/links"
	ordersvc "github.com/teeshirtate/storefront-backend/internal/orders"
	uploadsvc "github.com/teeshirtate/storefront-backend/internal/uploads"
	"github.com/teeshirtate/storefront-backend/pkg/auth/session"
	"github.com/teeshirtate/storefront-backend/pkg/config"
	"github.com/teeshirtate/storefront-backend/pkg/db"
	"github.com/teeshirtate/storefront-backend/pkg/enums"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/metrics"
	"github.com/teeshirtate/storefront-backend/pkg/redis"
	"github.com/teeshirtate/storefront-backend/pkg/storage/gcs"
)

// Deps bundles everything the route table mounts.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      redis.Pinger
	GCS        gcs.Pinger
	Sessions   session.AccessSessionChecker
	Registry   *prometheus.Registry
	Metrics    *metrics.StorefrontMetrics
	Catalog    catalog.Service
	Cart       cartsvc.Service
	Auth       authsvc.Service
	AdminGate  admingate.Service
	Orders     ordersvc.Service
	Links      linksvc.Service
	Uploads    uploadsvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    d.DB,
			"redis": d.Redis,
			"gcs":   d.GCS,
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Locally relayed design uploads are served straight from disk.
	fileServer := http.StripPrefix(cfg.Uploads.PublicPath,
		http.FileServer(http.Dir(cfg.Uploads.LocalDir)))
	r.Get(cfg.Uploads.PublicPath+"/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	r.Route("/api", func(r chi.Router) {
		// Public storefront surface.
		r.Get("/products", controllers.ListProducts(d.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(d.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(d.Catalog, logg))
		r.Get("/home", controllers.HomeFeed(d.Catalog, logg))
		r.Get("/links", controllers.ListLinks(d.Links, logg))
		r.Post("/orders", controllers.CreateOrder(d.Orders, logg))

		// Customers attach custom designs before checkout, so the relay is
		// not behind the admin gate.
		r.Post("/uploads", controllers.UploadDesign(d.Uploads, cfg.Uploads.MaxUploadMB, logg))

		// Visitor cart rides on the X-Cart-Id header, not on auth.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/cart", controllers.GetCart(d.Cart, logg))
			r.Post("/cart/items", controllers.AddCartItem(d.Cart, logg))
			r.Patch("/cart/items", controllers.UpdateCartItem(d.Cart, logg))
			r.Delete("/cart/items", controllers.RemoveCartItem(d.Cart, logg))
			r.Delete("/cart", controllers.ClearCart(d.Cart, logg))
			r.Post("/checkout", controllers.Checkout(d.Cart, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(d.Auth, logg))
			r.Post("/login", controllers.Login(d.Auth, logg))
			r.Post("/refresh", controllers.Refresh(d.Auth, logg))
			r.Post("/logout", controllers.Logout(d.Auth, cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
				r.Get("/me", controllers.Me(d.Auth, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Get("/orders/mine", controllers.ListMyOrders(d.Orders, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			// The gate endpoints sit before the gate check so an admin can
			// step up in the first place.
			r.Post("/gate/verify", controllers.VerifyAdminGate(d.AdminGate, logg))
			r.Get("/gate/status", controllers.AdminGateStatus(d.AdminGate, logg))
			r.Delete("/gate", controllers.ClearAdminGate(d.AdminGate, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminGate(d.AdminGate, logg))

				r.Post("/products", controllers.CreateProduct(d.Catalog, logg))
				// Legacy dashboard alias for product creation.
				r.Post("/products/add", controllers.CreateProduct(d.Catalog, logg))
				r.Put("/products/{productID}", controllers.UpdateProduct(d.Catalog, logg))
				r.Delete("/products/{productID}", controllers.DeleteProduct(d.Catalog, logg))

				r.Post("/categories", controllers.CreateCategory(d.Catalog, logg))
				r.Put("/categories/{categoryID}", controllers.UpdateCategory(d.Catalog, logg))
				r.Delete("/categories/{categoryID}", controllers.DeleteCategory(d.Catalog, logg))
				r.Post("/revalidate", controllers.RevalidateFeed(d.Catalog, logg))

				r.Get("/orders", controllers.ListOrders(d.Orders, logg))
				r.Get("/orders/{orderID}", controllers.GetOrder(d.Orders, logg))
				r.Patch("/orders/{orderID}/status", controllers.UpdateOrderStatus(d.Orders, logg))

				r.Get("/customers", controllers.ListCustomers(d.Auth, logg))

				r.Get("/links", controllers.ListAllLinks(d.Links, logg))
				r.Post("/links", controllers.CreateLink(d.Links, logg))
				r.Put("/links/{linkID}", controllers.UpdateLink(d.Links, logg))
				r.Delete("/links/{linkID}", controllers.DeleteLink(d.Links, logg))

				r.Post("/uploads", controllers.UploadDesign(d.Uploads, cfg.Uploads.MaxUploadMB, logg))
				r.Get("/images", controllers.ListUploadedImages(d.Uploads, logg))
			})
		})
	})

	return r
}
