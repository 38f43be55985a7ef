package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickkart/quickkart-backend/api/controllers"
	"github.com/quickkart/quickkart-backend/api/middleware"
	"github.com/quickkart/quickkart-backend/internal/cart"
	catalogsvc "github.com/quickkart/quickkart-backend/internal/catalog"
	checkoutsvc "github.com/quickkart/quickkart-backend/internal/checkout"
	"github.com/quickkart/quickkart-backend/internal/orders"
	"github.com/quickkart/quickkart-backend/pkg/config"
	"github.com/quickkart/quickkart-backend/pkg/db"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/metrics"
	"github.com/quickkart/quickkart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	catalogService catalogsvc.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", controllers.CatalogList(catalogService, logg))
		r.Get("/search", controllers.CatalogSearch(catalogService, logg))
		r.Get("/{productId}", controllers.CatalogDetail(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
			r.Patch("/preferences", controllers.CartPreferences(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersService, logg))
		})

		r.Route("/staff/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "staff", "admin"))
			r.Get("/", controllers.StaffOrderQueue(ordersService, logg))
			r.Get("/by-number/{orderNumber}", controllers.StaffOrderByNumber(ordersService, logg))
			r.Post("/{orderId}/transition", controllers.StaffOrderTransition(ordersService, logg))
		})
	})

	return r
}
