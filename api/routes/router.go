package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/priceless-app/priceless-backend/api/controllers"
	"github.com/priceless-app/priceless-backend/api/middleware"
	"github.com/priceless-app/priceless-backend/internal/buyoffers"
	"github.com/priceless-app/priceless-backend/internal/manualbuys"
	"github.com/priceless-app/priceless-backend/internal/selloffers"
	"github.com/priceless-app/priceless-backend/internal/shoppurchases"
	"github.com/priceless-app/priceless-backend/internal/users"
	"github.com/priceless-app/priceless-backend/pkg/config"
	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/metrics"
	pkgredis "github.com/priceless-app/priceless-backend/pkg/redis"
)

// Cache is the redis surface the router consumes: health pings plus the
// idempotency record store. *redis.Client satisfies it.
type Cache interface {
	pkgredis.Pinger
	pkgredis.IdempotencyStore
}

// NewRouter assembles the mirror API. cache may be nil, in which case the
// idempotency layer is skipped and /health omits the redis field.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache Cache,
	reqMetrics *metrics.RequestMetrics,
	registry *prometheus.Registry,
	userService users.Service,
	buyOfferService buyoffers.Service,
	sellOfferService selloffers.Service,
	manualBuyService manualbuys.Service,
	shopPurchaseService shoppurchases.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigin),
		middleware.Metrics(reqMetrics),
	)

	var cachePinger pkgredis.Pinger
	if cache != nil {
		cachePinger = cache
	}
	r.Get("/health", controllers.Health(cfg, dbP, cachePinger))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if cache != nil {
			r.Use(middleware.Idempotency(cache, logg))
		}

		// Legacy wallet lookup kept for the frontend's login flow.
		r.Get("/get_user", controllers.UserByWallet(userService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(userService, logg))
			r.Get("/", controllers.UserList(userService, logg))
			r.Get("/blockchain/{id}", controllers.UserGetByBlockchainID(userService, logg))
			r.Get("/{id}", controllers.UserGet(userService, logg))
			r.Patch("/{id}", controllers.UserUpdate(userService, logg))
			r.Delete("/{id}", controllers.UserDelete(userService, logg))
		})

		r.Route("/buy-offers", func(r chi.Router) {
			r.Post("/", controllers.BuyOfferCreate(buyOfferService, logg))
			r.Get("/", controllers.BuyOfferList(buyOfferService, logg))
			r.Get("/active/deadline", controllers.BuyOfferListActive(buyOfferService, logg))
			r.Get("/owner/{address}", controllers.BuyOfferListByOwner(buyOfferService, logg))
			r.Get("/blockchain/{id}", controllers.BuyOfferGetByBlockchainID(buyOfferService, logg))
			r.Get("/{id}", controllers.BuyOfferGet(buyOfferService, logg))
			r.Patch("/{id}", controllers.BuyOfferUpdate(buyOfferService, logg))
			r.Delete("/{id}", controllers.BuyOfferDelete(buyOfferService, logg))
		})

		r.Route("/sell-offers", func(r chi.Router) {
			r.Post("/", controllers.SellOfferCreate(sellOfferService, logg))
			r.Get("/", controllers.SellOfferList(sellOfferService, logg))
			r.Get("/blockchain/{id}", controllers.SellOfferGetByBlockchainID(sellOfferService, logg))
			r.Get("/buy-offer/{id}", controllers.SellOfferListByBuyOffer(sellOfferService, logg))
			r.Get("/agent/{id}", controllers.SellOfferListByAgent(sellOfferService, logg))
			r.Get("/{id}", controllers.SellOfferGet(sellOfferService, logg))
			r.Patch("/{id}", controllers.SellOfferUpdate(sellOfferService, logg))
			r.Delete("/{id}", controllers.SellOfferDelete(sellOfferService, logg))
		})

		r.Route("/manual-buys", func(r chi.Router) {
			r.Post("/", controllers.ManualBuyCreate(manualBuyService, logg))
			r.Get("/", controllers.ManualBuyList(manualBuyService, logg))
			r.Get("/buyer/{address}", controllers.ManualBuyListByBuyer(manualBuyService, logg))
			r.Get("/agent/{id}", controllers.ManualBuyListByAgent(manualBuyService, logg))
			r.Get("/buy-offer/{id}", controllers.ManualBuyListByBuyOffer(manualBuyService, logg))
			r.Get("/{id}", controllers.ManualBuyGet(manualBuyService, logg))
			r.Delete("/{id}", controllers.ManualBuyDelete(manualBuyService, logg))
		})

		r.Route("/shop-purchases", func(r chi.Router) {
			r.Post("/", controllers.ShopPurchaseCreate(shopPurchaseService, logg))
			r.Get("/", controllers.ShopPurchaseList(shopPurchaseService, logg))
			r.Get("/agent/{id}", controllers.ShopPurchaseListByAgent(shopPurchaseService, logg))
			r.Get("/sell-offer/{id}", controllers.ShopPurchaseListBySellOffer(shopPurchaseService, logg))
			r.Get("/{id}", controllers.ShopPurchaseGet(shopPurchaseService, logg))
			r.Delete("/{id}", controllers.ShopPurchaseDelete(shopPurchaseService, logg))
		})
	})

	return r
}
