package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/handlers/dto"
	"github.com/rafabene/seguros-backoffice/internal/handlers/middleware"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/config"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/i18n"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// Dependencies agrupa o que a API de consulta precisa
type Dependencies struct {
	I18n    *i18n.Service
	Auth    *services.AuthService
	Reports *services.ReportService
	Audit   *services.AuditService
	Logger  ports.Logger
}

// NewRouter monta o roteador da API de consulta
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Metrics())

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set(dto.BaseURLContextKey, cfg.Server.BaseURL)
		c.Next()
	})

	router.Use(middleware.NewI18nMiddleware(deps.I18n).DetectLanguage())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(renderProblems())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"env":            cfg.Env,
			"audit_fallback": deps.Audit.UsingFallback(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(deps.Auth)
	reportHandler := NewReportHandler(deps.Reports)
	auditHandler := NewAuditHandler(deps.Audit)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/token",
			middleware.RateLimit(cfg.Server.TokenRate, cfg.Server.TokenBurst),
			authHandler.IssueToken,
		)

		protected := v1.Group("", middleware.BearerAuth(deps.Auth))

		reports := protected.Group("/reports")
		{
			reports.GET("/insured-value", reportHandler.InsuredValue)
			reports.GET("/policies-by-type", reportHandler.PoliciesByType)
			reports.GET("/claims-by-status", reportHandler.ClaimsByStatus)
			reports.GET("/monthly-revenue", reportHandler.MonthlyRevenue)
			reports.GET("/top-customers", reportHandler.TopCustomers)
			reports.GET("/claims", reportHandler.ClaimsByPeriod)
		}

		audit := protected.Group("/audit")
		{
			audit.GET("", auditHandler.List)
			audit.GET("/stats", auditHandler.Stats)
		}
	}

	return router
}
