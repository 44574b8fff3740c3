package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/interfaces/http/handlers"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/middleware"
)

// OpportunityRouteConfig holds dependencies for opportunity routes.
type OpportunityRouteConfig struct {
	OpportunityHandler *handlers.OpportunityHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// SetupOpportunityRoutes configures the user-facing catalog and the
// admin curation surface.
func SetupOpportunityRoutes(engine *gin.Engine, cfg *OpportunityRouteConfig) {
	public := engine.Group("/api/opportunities", cfg.AuthMiddleware.RequireAuth())
	{
		public.GET("", cfg.OpportunityHandler.List)
		public.GET("/:id", cfg.OpportunityHandler.Get)
	}

	admin := engine.Group("/api/admin/opportunities",
		cfg.AuthMiddleware.RequireAuth(),
		cfg.AuthMiddleware.RequireAdmin(),
	)
	{
		admin.GET("", cfg.OpportunityHandler.AdminList)
		admin.POST("", cfg.OpportunityHandler.Create)
		admin.PUT("/:id", cfg.OpportunityHandler.Update)
		admin.POST("/:id/publish", cfg.OpportunityHandler.Publish)
		admin.POST("/:id/archive", cfg.OpportunityHandler.Archive)
	}
}
