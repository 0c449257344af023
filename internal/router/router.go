package router

import (
	"net/http"

	_ "github.com/mariamabdalla2350-rgb/medication-tracker/docs"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/app"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/insights"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/middleware"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Si es nil se usan repos in-memory.
	Services *app.Services
	Logger   logger.Logger

	ReportDir          string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

func NewRouter(opts Options) http.Handler {
	svcs := opts.Services
	if svcs == nil {
		svcs = app.NewServices(app.MemoryRepositories())
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.DebugUserHeader},
			AllowCredentials: true,
		}).Handler)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API: rate limit + identidad
	r.Group(func(api chi.Router) {
		api.Use(middleware.RateLimit(opts.RateLimitPerMinute))
		api.Use(middleware.AuthContext(opts.AuthVerifier))

		patients.RegisterRoutes(api, svcs.Patients)
		medications.RegisterRoutes(api, svcs.Medications, svcs.Patients)
		adherence.RegisterRoutes(api, svcs.Adherence, svcs.Patients)
		reminders.RegisterRoutes(api, svcs.Reminders, svcs.Patients)
		insights.RegisterRoutes(api, svcs.Insights, svcs.Patients, opts.ReportDir)
	})

	return r
}
