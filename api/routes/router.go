package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stride-storefront/api/controllers"
	analyticscontrollers "github.com/angelmondragon/stride-storefront/api/controllers/analytics"
	ordercontrollers "github.com/angelmondragon/stride-storefront/api/controllers/orders"
	"github.com/angelmondragon/stride-storefront/api/middleware"
	"github.com/angelmondragon/stride-storefront/internal/analytics"
	"github.com/angelmondragon/stride-storefront/internal/auth"
	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/orders"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/internal/specialorders"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
	pkgredis "github.com/angelmondragon/stride-storefront/pkg/redis"
)

// Dependencies carries everything the router wires into handlers. Counters
// and Idempotency may be nil; the matching middleware then passes through.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Pingers  map[string]controllers.Pinger

	Counters    middleware.CounterStore
	Idempotency pkgredis.IdempotencyStore

	Auth          auth.Service
	Products      products.Service
	Categories    categories.Service
	Orders        orders.Service
	SpecialOrders specialorders.Service
	Analytics     analytics.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	r := chi.NewRouter()
	httpMetrics := metrics.NewHTTPMetrics(deps.Registry)
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		httpMetrics.Middleware,
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Idempotency, middleware.IdempotencyRules(cfg.Idempotency), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/brands", controllers.ProductBrands(deps.Products, logg))
			r.Get("/filters", controllers.ProductFacets(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Categories, logg))
			r.Get("/{categoryId}", controllers.CategoryGet(deps.Categories, logg))
		})
		r.Post("/orders", ordercontrollers.Create(deps.Orders, logg))
		r.Post("/special-orders", controllers.SpecialOrderCreate(deps.SpecialOrders, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, deps.Counters, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Get("/auth/me", controllers.AuthMe(deps.Auth, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateCategory(deps.Categories, logg))
				r.Patch("/{categoryId}", controllers.AdminUpdateCategory(deps.Categories, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(deps.Categories, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
				r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
			})
			r.Route("/special-orders", func(r chi.Router) {
				r.Get("/", controllers.AdminSpecialOrderList(deps.SpecialOrders, logg))
				r.Patch("/{specialOrderId}/status", controllers.AdminSpecialOrderStatus(deps.SpecialOrders, logg))
			})
			r.Get("/analytics/overview", analyticscontrollers.Overview(deps.Analytics, logg))
		})
	})

	return r
}
