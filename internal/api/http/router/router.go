package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/enrollment-server/internal/api/http/handler"
	"github.com/dtroode/enrollment-server/internal/api/http/metrics"
	"github.com/dtroode/enrollment-server/internal/api/http/middleware"
	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

// Options controls optional router behaviour.
type Options struct {
	PublicBaseURL string
	// TrustProxyHeaders honours X-Forwarded-* and X-Real-IP from the peer.
	TrustProxyHeaders bool
	Metrics           bool
	RequestTimeout    time.Duration
	Health            handler.Pinger
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	registration   handler.RegistrationService
	verification   handler.EmailVerificationService
	users          handler.UserService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
	opts           Options
}

// New creates new HTTP Router instance.
func New(
	registration handler.RegistrationService,
	verification handler.EmailVerificationService,
	users handler.UserService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	opts Options,
) *Router {
	return &Router{
		registration:   registration,
		verification:   verification,
		users:          users,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
		opts:           opts,
	}
}

// Register builds the HTTP handler with all routes and middleware.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimid.RequestID)
	if r.opts.TrustProxyHeaders {
		mux.Use(chimid.RealIP)
	}
	mux.Use(logging.Handle)
	mux.Use(chimid.Recoverer)
	if r.opts.Metrics {
		mux.Use(metrics.Middleware)
	}
	if r.opts.RequestTimeout > 0 {
		mux.Use(chimid.Timeout(r.opts.RequestTimeout))
	}

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusNotFound, handler.KindNotFound, "route not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, handler.KindNotFound, "method not allowed")
	})

	mux.Method(http.MethodGet, "/health", handler.NewHealth(r.opts.Health))
	if r.opts.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.Route("/api/v1", func(api chi.Router) {
		r.registerAuthRoutes(api)
		r.registerUserRoutes(api, authenticate)
	})

	return mux
}

func (r *Router) registerAuthRoutes(api chi.Router) {
	authHandler := handler.NewAuth(r.registration, r.verification, handler.Origin{
		PublicBaseURL:     r.opts.PublicBaseURL,
		TrustProxyHeaders: r.opts.TrustProxyHeaders,
	}, r.logger)

	api.Route("/auth", func(auth chi.Router) {
		auth.With(chimid.AllowContentType("application/json")).Post("/register", authHandler.Register)
		auth.Get("/verify-email/{verificationToken}", authHandler.VerifyEmail)
	})
}

func (r *Router) registerUserRoutes(api chi.Router, authenticate *middleware.Authenticate) {
	userHandler := handler.NewUser(r.users, r.contextManager, r.logger)

	api.Route("/users", func(users chi.Router) {
		users.Use(authenticate.Handle)
		users.Get("/me", userHandler.Me)
	})
}
