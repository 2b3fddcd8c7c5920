package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/middleware"
	"github.com/sitebooks/sitebooks/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Setup API v1 routes with caller identity middleware
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Identity is asserted upstream; the middleware only materializes it.
	v1 := r.Group("/api/v1", middleware.CallerIdentityMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal)
	registerInvoiceRoutes(v1, services.Invoice)
	registerCurrencyRoutes(v1, services.Currency)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
	registerPartyRoutes(v1, services.Party)
	registerProjectRoutes(v1, services.Project)
	registerReportingRoutes(v1, services.Reporting)
	registerInsightRoutes(v1, services.Risk, services.Reporting)
}
