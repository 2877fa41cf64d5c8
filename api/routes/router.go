package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fedegimenez/amaro-backend/api/controllers"
	webhookcontrollers "github.com/fedegimenez/amaro-backend/api/controllers/webhooks"
	"github.com/fedegimenez/amaro-backend/api/middleware"
	"github.com/fedegimenez/amaro-backend/internal/cart"
	"github.com/fedegimenez/amaro-backend/internal/catalog"
	"github.com/fedegimenez/amaro-backend/internal/content"
	"github.com/fedegimenez/amaro-backend/internal/notifications"
	"github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/internal/payments"
	mpwebhook "github.com/fedegimenez/amaro-backend/internal/webhooks/mercadopago"
	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/db"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	contentService content.Service,
	cartService cart.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
	webhookService mpwebhook.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/mercadopago", webhookcontrollers.MercadoPagoWebhook(webhookService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		var store redis.IdempotencyStore
		if redisClient != nil {
			store = redisClient
		}
		r.Use(middleware.Idempotency(store, logg))

		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(catalogService, logg))
		r.Get("/brands", controllers.ListBrands(contentService, logg))
		r.Get("/banners", controllers.ListBanners(contentService, logg))
		r.Get("/size-guides", controllers.ListSizeGuides(contentService, logg))

		r.Post("/cart/quote", controllers.QuoteCart(cartService, logg))

		r.Post("/orders", controllers.CreateOrder(ordersService, logg))
		r.Post("/orders/send-invoice", controllers.SendInvoice(ordersService, notificationsService, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(ordersService, logg))
		r.Get("/orders/{orderId}/invoice", controllers.OrderInvoice(ordersService, logg))

		r.Post("/payments/mercadopago", controllers.MercadoPagoCheckout(paymentsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin.APIKey, logg))

		r.Get("/orders", controllers.AdminListOrders(ordersService, logg))
		r.Get("/orders/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
		r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
		r.Post("/orders/{orderId}/notify", controllers.AdminNotifyOrder(ordersService, notificationsService, logg))

		r.Get("/sync-status", controllers.AdminSyncStatus(contentService, logg))
	})

	return r
}
