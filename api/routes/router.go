package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmdirect/farmdirect-backend/api/controllers"
	"github.com/farmdirect/farmdirect-backend/api/middleware"
	"github.com/farmdirect/farmdirect-backend/internal/auth"
	"github.com/farmdirect/farmdirect-backend/internal/cart"
	"github.com/farmdirect/farmdirect-backend/internal/content"
	"github.com/farmdirect/farmdirect-backend/internal/farms"
	"github.com/farmdirect/farmdirect-backend/internal/media"
	"github.com/farmdirect/farmdirect-backend/internal/products"
	"github.com/farmdirect/farmdirect-backend/pkg/auth/session"
	"github.com/farmdirect/farmdirect-backend/pkg/config"
	"github.com/farmdirect/farmdirect-backend/pkg/db"
	"github.com/farmdirect/farmdirect-backend/pkg/logger"
	"github.com/farmdirect/farmdirect-backend/pkg/maps"
	"github.com/farmdirect/farmdirect-backend/pkg/metrics"
	"github.com/farmdirect/farmdirect-backend/pkg/redis"
	"github.com/farmdirect/farmdirect-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient *gcs.Client,
	promRegistry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	farmsService farms.Service,
	cartService cart.Service,
	productsService products.Service,
	contentService content.Service,
	mediaService media.Service,
	mapsClient *maps.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var redisPinger, gcsPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	if gcsClient != nil {
		gcsPinger = gcsClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger, gcsPinger))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/farms", func(r chi.Router) {
			r.Get("/", controllers.FarmList(farmsService, logg))
			r.Get("/map", controllers.FarmMap(farmsService, logg))
			r.Get("/{slug}", controllers.FarmGetBySlug(farmsService, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productsService, logg))
			r.Get("/{id}", controllers.ProductGet(productsService, logg))
		})
		r.Get("/pages", controllers.PageList(contentService, logg))
		r.Get("/pages/*", controllers.PageGet(contentService, logg))
		r.Get("/navigation/{slot}", controllers.NavigationGet(contentService, logg))
		r.Get("/home-sections", controllers.HomeSectionsList(contentService, logg))
		r.Get("/media/{id}", controllers.MediaGet(mediaService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/items/{cartID}/{productID}", controllers.CartDecrementItem(cartService, logg))
			r.Get("/{farmID}", controllers.CartGet(cartService, logg))
		})

		r.Route("/v1/farms", func(r chi.Router) {
			r.Post("/", controllers.FarmCreate(farmsService, logg))
			r.Put("/{id}", controllers.FarmUpdate(farmsService, logg))
			r.Delete("/{id}", controllers.FarmDelete(farmsService, logg))
			r.Put("/{id}/offers", controllers.FarmOfferUpsert(farmsService, logg))
			r.Delete("/{id}/offers/{productID}", controllers.FarmOfferDelete(farmsService, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(productsService, logg))
			r.Put("/{id}", controllers.ProductUpdate(productsService, logg))
			r.Delete("/{id}", controllers.ProductDelete(productsService, logg))
		})

		r.Route("/v1/media", func(r chi.Router) {
			r.Post("/presign", controllers.MediaPresign(mediaService, logg))
			r.Post("/{id}/finalize", controllers.MediaFinalize(mediaService, logg))
			r.Delete("/{id}", controllers.MediaDelete(mediaService, logg))
		})

		if mapsClient != nil {
			r.Route("/v1/places", func(r chi.Router) {
				r.Get("/autocomplete", controllers.PlacesAutocomplete(mapsClient, logg))
				r.Get("/{placeID}", controllers.PlacesResolve(mapsClient, logg))
			})
		}
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(logg, "admin"))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/pages", func(r chi.Router) {
			r.Get("/", controllers.PageList(contentService, logg))
			r.Post("/", controllers.PageCreate(contentService, logg))
			r.Put("/{id}", controllers.PageUpdate(contentService, logg))
			r.Delete("/{id}", controllers.PageDelete(contentService, logg))
			r.Get("/*", controllers.PageGet(contentService, logg))
		})
		r.Put("/v1/navigation/{slot}", controllers.NavigationUpsert(contentService, logg))
		r.Route("/v1/home-sections", func(r chi.Router) {
			r.Get("/", controllers.HomeSectionsList(contentService, logg))
			r.Post("/", controllers.HomeSectionUpsert(contentService, logg))
			r.Put("/{id}", controllers.HomeSectionUpsert(contentService, logg))
			r.Delete("/{id}", controllers.HomeSectionDelete(contentService, logg))
		})
	})

	return r
}
