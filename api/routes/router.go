package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cukedoh/bakery-backend/api/controllers"
	cartcontrollers "github.com/cukedoh/bakery-backend/api/controllers/cart"
	catalogcontrollers "github.com/cukedoh/bakery-backend/api/controllers/catalog"
	ordercontrollers "github.com/cukedoh/bakery-backend/api/controllers/orders"
	webhookcontrollers "github.com/cukedoh/bakery-backend/api/controllers/webhooks"
	"github.com/cukedoh/bakery-backend/api/middleware"
	"github.com/cukedoh/bakery-backend/internal/cart"
	catalogsvc "github.com/cukedoh/bakery-backend/internal/catalog"
	checkoutsvc "github.com/cukedoh/bakery-backend/internal/checkout"
	"github.com/cukedoh/bakery-backend/internal/orders"
	stripewebhook "github.com/cukedoh/bakery-backend/internal/webhooks/stripe"
	"github.com/cukedoh/bakery-backend/pkg/config"
	"github.com/cukedoh/bakery-backend/pkg/db"
	"github.com/cukedoh/bakery-backend/pkg/logger"
	"github.com/cukedoh/bakery-backend/pkg/redis"
	"github.com/cukedoh/bakery-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	catalogService catalogsvc.Service,
	cartService cart.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/cakes", catalogcontrollers.ListCakes(catalogService, logg))
		r.Get("/variants", catalogcontrollers.ListVariants(catalogService, logg))
		r.Get("/refreshments", catalogcontrollers.ListRefreshments(catalogService, logg))
	})

	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Get("/", cartcontrollers.Fetch(cartService, logg))
		r.Post("/preset-cakes", cartcontrollers.AddPresetCake(cartService, logg))
		r.Post("/custom-cakes", cartcontrollers.AddCustomCake(cartService, logg))
		r.Post("/refreshments", cartcontrollers.AddRefreshment(cartService, logg))
		r.Post("/snack-boxes", cartcontrollers.AddSnackBox(cartService, logg))
		r.Put("/items/{itemId}", cartcontrollers.UpdateQuantity(cartService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", ordercontrollers.List(ordersService, logg))
		r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
	})

	r.Post("/api/v1/checkout", controllers.Checkout(checkoutService, logg))

	r.Route("/api/admin/v1/orders", func(r chi.Router) {
		r.Get("/overview", ordercontrollers.AdminOverview(ordersService, logg))
		r.Get("/{orderId}", ordercontrollers.AdminDetail(ordersService, logg))
		r.Patch("/{orderId}/status", ordercontrollers.AdminUpdateStatus(ordersService, logg))
	})

	return r
}
