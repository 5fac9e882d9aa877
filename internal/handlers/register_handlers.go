package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/ledger_backend/internal/core/services"
	"github.com/openledgerhq/ledger_backend/internal/middleware"
	"github.com/openledgerhq/ledger_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svcs services.ServiceProvider,
) {
	// Health check route, outside the identity-guarded API surface
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	setupAPIV1Routes(r, cfg, svcs)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svcs services.ServiceProvider,
) {
	// Every API route runs behind the caller-identity middleware; the upstream
	// gateway has already authenticated the user.
	v1 := r.Group("/api/v1", middleware.RequesterIdentity())

	// All resources are scoped to a company.
	company := v1.Group("/companies/:companyID")

	registerAccountRoutes(company, svcs.AccountSvc)
	registerJournalRoutes(company, svcs.JournalSvc)
}
