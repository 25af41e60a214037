package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/trainingdesk-backend/api/controllers"
	documentcontrollers "github.com/angelmondragon/trainingdesk-backend/api/controllers/documents"
	productcontrollers "github.com/angelmondragon/trainingdesk-backend/api/controllers/products"
	sessioncontrollers "github.com/angelmondragon/trainingdesk-backend/api/controllers/sessions"
	usercontrollers "github.com/angelmondragon/trainingdesk-backend/api/controllers/users"
	"github.com/angelmondragon/trainingdesk-backend/api/middleware"
	"github.com/angelmondragon/trainingdesk-backend/internal/auth"
	"github.com/angelmondragon/trainingdesk-backend/internal/dashboard"
	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/internal/preferences"
	"github.com/angelmondragon/trainingdesk-backend/internal/products"
	"github.com/angelmondragon/trainingdesk-backend/internal/sessions"
	"github.com/angelmondragon/trainingdesk-backend/internal/users"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/metrics"
	"github.com/angelmondragon/trainingdesk-backend/pkg/redis"
)

// NewRouter wires every HTTP route. redisClient may be nil, in which case idempotency
// and login rate limiting are skipped.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	authService auth.Service,
	dashboardService dashboard.Service,
	preferencesService preferences.Service,
	productService products.Service,
	documentService documents.Service,
	sessionService sessions.Service,
	userService users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// Typed nils would defeat the middleware nil checks.
	var (
		pinger    redis.Pinger
		idemStore redis.IdempotencyStore
		rateStore *redis.Client
	)
	if redisClient != nil {
		pinger, idemStore, rateStore = redisClient, redisClient, redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	maxUploadBytes := int64(cfg.Documents.MaxUploadMB) << 20

	uploaders := middleware.RequireRoles(logg, enums.UserRoleAdmin, enums.UserRoleSubAdmin, enums.UserRoleTrainer)
	userManagers := middleware.RequireRoles(logg, enums.UserRoleAdmin, enums.UserRoleSubAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pinger, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rateStore != nil {
				r.Use(middleware.AuthRateLimit(loginPolicy, rateStore, logg))
			}
			r.Post("/auth/login", controllers.AuthLogin(authService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, authService, logg))
			r.Use(middleware.Idempotency(idemStore, maxUploadBytes, logg))

			r.Get("/me", controllers.AuthMe(authService, logg))
			r.Put("/me/password", controllers.AuthChangePassword(authService, logg))
			r.Get("/dashboard", controllers.DashboardStats(dashboardService, logg))

			r.Get("/preferences", controllers.PreferencesGet(preferencesService, logg))
			r.Patch("/preferences", controllers.PreferencesUpdate(preferencesService, logg))
			r.Get("/profile", controllers.ProfileGet(preferencesService, logg))
			r.Patch("/profile", controllers.ProfileUpdate(preferencesService, logg))

			r.Get("/assistant/samples", controllers.AssistantSamples())

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productcontrollers.List(productService, logg))
				r.With(uploaders).Post("/", productcontrollers.Create(productService, maxUploadBytes, logg))

				r.Get("/selection", productcontrollers.Selected(productService, logg))
				r.Put("/selection", productcontrollers.Select(productService, logg))
				r.Delete("/selection", productcontrollers.ClearSelection(productService, logg))

				r.Route("/{productId}", func(r chi.Router) {
					r.Get("/", productcontrollers.Detail(productService, logg))
					r.Get("/documents", documentcontrollers.List(documentService, logg))
					r.With(uploaders).Post("/documents", documentcontrollers.Upload(documentService, maxUploadBytes, logg))
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Use(uploaders)
				r.Delete("/{documentId}", documentcontrollers.Delete(documentService, logg))
				r.Post("/delete", documentcontrollers.DeleteMany(documentService, logg))
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessioncontrollers.History(sessionService, logg))
				r.Post("/", sessioncontrollers.Start(sessionService, logg))

				r.Route("/current", func(r chi.Router) {
					r.Get("/", sessioncontrollers.Current(sessionService, logg))
					r.Post("/guidelines", sessioncontrollers.AcceptGuidelines(sessionService, logg))
					r.Post("/video", sessioncontrollers.CompleteVideo(sessionService, logg))
					r.Post("/messages", sessioncontrollers.SendMessage(sessionService, logg))
					r.Post("/complete", sessioncontrollers.Complete(sessionService, logg))
					r.Post("/abandon", sessioncontrollers.Abandon(sessionService, logg))
				})
				r.Get("/{sessionId}", sessioncontrollers.Get(sessionService, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(userManagers)
				r.Get("/", usercontrollers.List(userService, logg))
				r.Post("/", usercontrollers.Create(userService, logg))

				r.Get("/selection", usercontrollers.Selected(userService, logg))
				r.Put("/selection", usercontrollers.Select(userService, logg))
				r.Delete("/selection", usercontrollers.ClearSelection(userService, logg))

				r.Get("/{userId}", usercontrollers.Get(userService, logg))
				r.Put("/{userId}", usercontrollers.Update(userService, logg))
				r.Delete("/{userId}", usercontrollers.Delete(userService, logg))
			})
		})
	})

	return r
}
