package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/townbasket/townbasket-backend/api/controllers"
	cartcontrollers "github.com/townbasket/townbasket-backend/api/controllers/cart"
	"github.com/townbasket/townbasket-backend/api/middleware"
	"github.com/townbasket/townbasket-backend/internal/address"
	cartsvc "github.com/townbasket/townbasket-backend/internal/cart"
	"github.com/townbasket/townbasket-backend/internal/catalog"
	checkoutsvc "github.com/townbasket/townbasket-backend/internal/checkout"
	"github.com/townbasket/townbasket-backend/internal/merchants"
	"github.com/townbasket/townbasket-backend/internal/notifications"
	"github.com/townbasket/townbasket-backend/internal/orders"
	"github.com/townbasket/townbasket-backend/internal/promo"
	"github.com/townbasket/townbasket-backend/internal/rewards"
	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/redis"
)

// Services bundles the domain services the HTTP surface exposes.
type Services struct {
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Addresses     address.Service
	Merchants     merchants.Service
	Catalog       catalog.Service
	Promos        promo.Service
	Rewards       rewards.Service
	Orders        orders.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(svcs.Cart, logg))
			r.Delete("/", cartcontrollers.CartClear(svcs.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items/{lineId}", cartcontrollers.CartSetQuantity(svcs.Cart, logg))
			r.Delete("/items/{lineId}", cartcontrollers.CartRemoveItem(svcs.Cart, logg))
			r.Post("/replace", cartcontrollers.CartConfirmReplace(svcs.Cart, logg))
			r.Post("/replace/cancel", cartcontrollers.CartCancelReplace(svcs.Cart, logg))
			r.Post("/promo", cartcontrollers.CartApplyPromo(svcs.Cart, logg))
			r.Delete("/promo", cartcontrollers.CartClearPromo(svcs.Cart, logg))
			r.Post("/points", cartcontrollers.CartRedeemPoints(svcs.Cart, logg))
			r.Delete("/points", cartcontrollers.CartClearPoints(svcs.Cart, logg))
			r.Put("/tip", cartcontrollers.CartSetTip(svcs.Cart, logg))
			r.Put("/donation", cartcontrollers.CartSetDonation(svcs.Cart, logg))
			r.Put("/note", cartcontrollers.CartSetNote(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(svcs.Addresses, logg))
			r.Post("/", controllers.AddressCreate(svcs.Addresses, logg))
			r.Put("/{addressId}/select", controllers.AddressSelect(svcs.Addresses, logg))
		})

		r.Route("/merchants", func(r chi.Router) {
			r.Get("/", controllers.MerchantList(svcs.Merchants, logg))
			r.Get("/{merchantId}/menu", controllers.MerchantMenu(svcs.Merchants, svcs.Catalog, logg))
		})

		r.Get("/promos", controllers.PromoList(svcs.Promos, logg))
		r.Get("/rewards/balance", controllers.RewardsBalance(svcs.Rewards, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	return r
}
