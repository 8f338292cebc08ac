package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/api/handlers"
	mw "github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/buildconfig"
	"github.com/Harshitk-cp/sitefleet/internal/config"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/llm"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the external systems the app runs on.
type Deps struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
	// Logos is nil when no bucket is configured; uploads then answer 503.
	Logos   domain.LogoStore
	Advisor domain.TemplateAdvisor
	Logger  *zap.Logger
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Sweeper      *service.OrphanSweeper
	Metrics      *metrics.Metrics
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(deps Deps) *App {
	logger := deps.Logger
	m := metrics.New()

	// Stores
	tenantStore := store.NewTenantStore(deps.DB)
	membershipStore := store.NewMembershipStore(deps.DB)
	websiteStore := store.NewWebsiteStore(deps.DB)
	deploymentStore := store.NewDeploymentStore(deps.DB)
	configStore := store.NewWebsiteConfigStore(deps.DB)
	analyticsStore := store.NewAnalyticsStore(deps.DB)
	sessionStore := store.NewSessionStore(deps.Redis, config.SessionStateTTL())

	// Services
	accessSvc := service.NewAccessService(membershipStore, sessionStore, config.MembershipCacheTTL(), logger)
	accessSvc.SetMetrics(m)
	tenantSvc := service.NewTenantService(tenantStore, accessSvc, logger)
	membershipSvc := service.NewMembershipService(membershipStore, accessSvc, logger)
	websiteSvc := service.NewWebsiteService(websiteStore, deps.Logos, logger)
	bulkSvc := service.NewBulkService(websiteStore, logger)
	bulkSvc.SetBatchSize(config.BulkBatchSize())
	bulkSvc.SetItemTimeout(config.BulkItemTimeout())
	bulkSvc.SetMetrics(m)
	deploymentSvc := service.NewDeploymentService(deploymentStore, websiteStore, websiteSvc, logger)
	themeSvc := service.NewThemeService(sessionStore, websiteStore, logger)
	savedSvc := service.NewSavedWebsiteService(configStore)
	analyticsSvc := service.NewAnalyticsService(analyticsStore)
	analyticsSvc.SetMetrics(m)
	advisorSvc := service.NewAdvisorService(deps.Advisor, logger)

	sweeper := service.NewOrphanSweeper(tenantStore, logger)
	sweeper.SetInterval(config.OrphanSweepInterval())
	sweeper.SetGrace(config.OrphanGracePeriod())
	sweeper.SetMetrics(m)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantSvc, accessSvc, logger)
	memberHandler := handlers.NewMemberHandler(membershipSvc, logger)
	websiteHandler := handlers.NewWebsiteHandler(websiteSvc, bulkSvc, logger)
	deploymentHandler := handlers.NewDeploymentHandler(deploymentSvc, logger)
	sessionHandler := handlers.NewSessionHandler(themeSvc, logger)
	savedHandler := handlers.NewSavedWebsiteHandler(savedSvc, logger)
	catalogHandler := handlers.NewCatalogHandler(advisorSvc, analyticsSvc, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Sweeper:   sweeper,
		Metrics:   m,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, m)
	verifier := mw.NewSessionVerifier(config.SessionJWTSecret(), config.SessionJWTIssuer())

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.TenantHeader, mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// No auth
	r.Get("/health", healthHandler(
		healthCheck{"database", deps.DB.Ping},
		healthCheck{"redis", func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }},
	))
	r.Get("/stats", app.statsHandler())
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", catalogHandler.Templates)
		r.Post("/analytics/events", catalogHandler.RecordEvent)

		r.Group(func(r chi.Router) {
			r.Use(mw.SessionAuth(verifier))

			r.Get("/me/tenants", tenantHandler.MyTenants)
			r.Post("/tenants", tenantHandler.Create)
			r.Post("/invitations/{tenantID}/accept", memberHandler.Accept)
			r.Post("/advisor/recommend", catalogHandler.Recommend)

			r.Route("/saved-websites", func(r chi.Router) {
				r.Get("/", savedHandler.List)
				r.Post("/", savedHandler.Save)
				r.Get("/{id}", savedHandler.Get)
				r.Delete("/{id}", savedHandler.Delete)
			})

			// Editor session; colors write back to a website only when a tenant resolves.
			r.Route("/session", func(r chi.Router) {
				r.Use(mw.OptionalTenantScope(accessSvc, logger))
				r.Get("/company-data", sessionHandler.GetCompanyData)
				r.Put("/company-data", sessionHandler.PutCompanyData)
				r.Put("/colors", sessionHandler.SetColors)
				r.Post("/colors/undo", sessionHandler.Undo)
				r.Post("/resolve", sessionHandler.Resolve)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.TenantScope(accessSvc, logger))

				r.Route("/tenants/current", func(r chi.Router) {
					r.Get("/", tenantHandler.Current)
					r.Put("/", tenantHandler.Switch)
					r.Patch("/settings", tenantHandler.UpdateSettings)
					r.Get("/analytics-id", tenantHandler.AnalyticsID)
					r.Get("/clients", tenantHandler.ListClients)
					r.Post("/clients", tenantHandler.CreateClient)

					r.Route("/members", func(r chi.Router) {
						r.Get("/", memberHandler.List)
						r.Post("/", memberHandler.Invite)
						r.Put("/{userID}", memberHandler.ChangeRole)
						r.Delete("/{userID}", memberHandler.Remove)
					})
				})

				r.Route("/websites", func(r chi.Router) {
					r.Get("/", websiteHandler.List)
					r.Post("/", websiteHandler.Create)
					r.Post("/bulk", websiteHandler.Bulk)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", websiteHandler.Get)
						r.Put("/", websiteHandler.Update)
						r.Delete("/", websiteHandler.Delete)
						r.Post("/logo", websiteHandler.UploadLogo)
						r.Get("/deployment", deploymentHandler.GetForWebsite)
						r.Put("/deployment", deploymentHandler.Upsert)
					})
				})

				r.Route("/deployments", func(r chi.Router) {
					r.Get("/", deploymentHandler.List)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", deploymentHandler.Get)
						r.Get("/workflow", deploymentHandler.Workflow)
						r.Post("/status", deploymentHandler.RecordStatus)
					})
				})
			})
		})
	})

	return app
}

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

func healthHandler(checks ...healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := map[string]any{"status": "ok"}
		for k, v := range buildconfig.VersionInfo() {
			resp[k] = v
		}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				resp["status"] = "error"
				resp[c.name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			resp[c.name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (app *App) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.TenantStore        = (*store.TenantStore)(nil)
	_ domain.MembershipStore    = (*store.MembershipStore)(nil)
	_ domain.WebsiteStore       = (*store.WebsiteStore)(nil)
	_ domain.DeploymentStore    = (*store.DeploymentStore)(nil)
	_ domain.WebsiteConfigStore = (*store.WebsiteConfigStore)(nil)
	_ domain.AnalyticsStore     = (*store.AnalyticsStore)(nil)
	_ domain.SessionStore       = (*store.SessionStore)(nil)
	_ domain.LogoStore          = (*store.LogoStore)(nil)
	_ domain.TemplateAdvisor    = (*llm.OpenAIClient)(nil)
	_ domain.TemplateAdvisor    = (*llm.AnthropicClient)(nil)
	_ domain.TemplateAdvisor    = (*llm.GeminiClient)(nil)
	_ domain.TemplateAdvisor    = (*llm.CerebrasClient)(nil)
	_ domain.TemplateAdvisor    = (*llm.MockClient)(nil)
	_ mw.ScopeResolver          = (*service.AccessService)(nil)
)
