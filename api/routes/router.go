package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanleanh/shopline-backend/api/controllers"
	webhookcontrollers "github.com/tuanleanh/shopline-backend/api/controllers/webhooks"
	"github.com/tuanleanh/shopline-backend/api/middleware"
	authsvc "github.com/tuanleanh/shopline-backend/internal/auth"
	cartsvc "github.com/tuanleanh/shopline-backend/internal/cart"
	checkoutsvc "github.com/tuanleanh/shopline-backend/internal/checkout"
	ordersvc "github.com/tuanleanh/shopline-backend/internal/orders"
	pagesvc "github.com/tuanleanh/shopline-backend/internal/pages"
	productsvc "github.com/tuanleanh/shopline-backend/internal/products"
	stripewebhook "github.com/tuanleanh/shopline-backend/internal/webhooks/stripe"
	"github.com/tuanleanh/shopline-backend/pkg/auth/session"
	"github.com/tuanleanh/shopline-backend/pkg/config"
	"github.com/tuanleanh/shopline-backend/pkg/db"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
	"github.com/tuanleanh/shopline-backend/pkg/metrics"
	"github.com/tuanleanh/shopline-backend/pkg/redis"
	"github.com/tuanleanh/shopline-backend/pkg/stripe"
)

type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redis.Pinger
	SessionManager session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService     authsvc.Service
	ProductService  productsvc.Service
	PageService     pagesvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrderService    ordersvc.Service

	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhookSvc, deps.StripeClient, deps.StripeWebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionManager, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.ProductService, logg))
	})

	r.Route("/api/v1/pages", func(r chi.Router) {
		r.Get("/", controllers.PageList(deps.PageService, logg))
		r.Get("/{slug}", controllers.PageDetail(deps.PageService, logg))
	})

	// The success landing is hit by a browser redirect from the payment page,
	// so it carries no bearer token. Completion stays safe because the order
	// transition is idempotent.
	r.Get("/api/v1/checkout/success", controllers.CheckoutSuccess(deps.OrderService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Patch("/lines/{lineId}", controllers.CartUpdateLine(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
		})
	})

	return r
}
