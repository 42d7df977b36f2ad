package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartpark-rw/sims-backend/api/controllers"
	"github.com/smartpark-rw/sims-backend/api/middleware"
	"github.com/smartpark-rw/sims-backend/internal/auth"
	"github.com/smartpark-rw/sims-backend/internal/ledger"
	"github.com/smartpark-rw/sims-backend/internal/parts"
	"github.com/smartpark-rw/sims-backend/internal/reports"
	"github.com/smartpark-rw/sims-backend/pkg/auth/session"
	"github.com/smartpark-rw/sims-backend/pkg/config"
	"github.com/smartpark-rw/sims-backend/pkg/db"
	"github.com/smartpark-rw/sims-backend/pkg/logger"
	"github.com/smartpark-rw/sims-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	AuthService    auth.Service
	Register       auth.RegisterService
	Parts          parts.Service
	Ledger         ledger.Service
	Reports        reports.Service
}

// NewRouter assembles the API routes. Everything under /api except auth
// requires a valid access token with a live session.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	var cache controllers.Pinger
	if p.Redis != nil {
		cache = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, cache))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/register", controllers.AuthRegister(p.Register, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionChecker, logg)).Get("/me", controllers.AuthMe(p.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Route("/spare-parts", func(r chi.Router) {
			r.Get("/", controllers.ListSpareParts(p.Parts, logg))
			r.Post("/", controllers.CreateSparePart(p.Parts, logg))
		})

		r.Route("/stock-in", func(r chi.Router) {
			r.Get("/", controllers.ListStockIns(p.Ledger, logg))
			r.Post("/", controllers.RecordStockIn(p.Ledger, logg))
		})

		r.Route("/stock-out", func(r chi.Router) {
			r.Get("/", controllers.ListStockOuts(p.Ledger, logg))
			r.Post("/", controllers.RecordStockOut(p.Ledger, logg))
			r.Put("/{stockOutId}", controllers.AmendStockOut(p.Ledger, logg))
			r.Delete("/{stockOutId}", controllers.DeleteStockOut(p.Ledger, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily-stock-out", controllers.DailyStockOutReport(p.Reports, logg))
			r.Get("/daily-stock-status", controllers.DailyStockStatusReport(p.Reports, logg))
			r.Get("/stock-movement-summary", controllers.StockMovementSummaryReport(p.Reports, logg))
		})
	})

	return r
}
