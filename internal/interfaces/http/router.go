// Package http wires the HTTP surface: middleware, handlers, and
// route registration.
package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authApp "github.com/ngoinfo/grantpilot/internal/application/auth"
	billingApp "github.com/ngoinfo/grantpilot/internal/application/billing"
	"github.com/ngoinfo/grantpilot/internal/application/fitscan/promptinputs"
	"github.com/ngoinfo/grantpilot/internal/application/fitscan/usecases"
	opportunityApp "github.com/ngoinfo/grantpilot/internal/application/opportunity"
	profileApp "github.com/ngoinfo/grantpilot/internal/application/profile"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/ai"
	infraauth "github.com/ngoinfo/grantpilot/internal/infrastructure/auth"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/cache"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/config"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/email"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/ratelimit"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/repository"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/handlers"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/middleware"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/routes"
	"github.com/ngoinfo/grantpilot/internal/shared/db"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/services/markdown"
)

const oauthStateTTL = 10 * time.Minute

// Router owns the gin engine and the wired handler graph.
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the full dependency graph from the open database
// and redis connections.
func NewRouter(ctx context.Context, gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	userRepo := repository.NewUserRepository(gdb)
	profileRepo := repository.NewProfileRepository(gdb)
	opportunityRepo := repository.NewOpportunityRepository(gdb)
	fitScanRepo := repository.NewFitScanRepository(gdb)
	planRepo := repository.NewPlanRepository(gdb)
	usageRepo := repository.NewUsageRepository(gdb)
	refreshTokenRepo := repository.NewRefreshTokenRepository(gdb)
	magicLinkTokenRepo := repository.NewMagicLinkTokenRepository(gdb)

	txManager := db.NewTransactionManager(gdb)

	jwtService := infraauth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	tokenHasher := infraauth.NewTokenHasher(cfg.Auth.JWT.Secret)
	oauthClient := infraauth.NewGoogleOAuthClient(infraauth.GoogleOAuthConfig{
		ClientID:     cfg.Auth.Google.ClientID,
		ClientSecret: cfg.Auth.Google.ClientSecret,
		RedirectURL:  cfg.Auth.Google.RedirectURL,
	})
	stateStore := cache.NewRedisStateStore(redisClient, "oauth_state", oauthStateTTL)
	rateLimiter := ratelimit.NewRedisRateLimiter(redisClient)

	mailer := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.Host,
		Port:        cfg.Email.Port,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.FrontendCallbackURL,
	})

	generator, err := ai.NewGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return nil, err
	}
	executor := ai.NewExecutor(generator, time.Duration(cfg.AI.TimeoutSeconds)*time.Second, log)

	quotaService := billingApp.NewQuotaService(planRepo, usageRepo, log)
	authService := authApp.NewService(
		userRepo,
		refreshTokenRepo,
		magicLinkTokenRepo,
		quotaService,
		jwtService,
		tokenHasher,
		mailer,
		rateLimiter,
		oauthClient,
		stateStore,
		authApp.Config{
			MagicLinkTTLMinutes: cfg.Auth.MagicLink.TokenTTLMinutes,
			RefreshTokenTTLDays: cfg.Auth.JWT.RefreshExpDays,
			AdminEmails:         cfg.Auth.AdminEmails,
		},
		log,
	)
	profileService := profileApp.NewService(profileRepo, log)
	opportunityService := opportunityApp.NewService(opportunityRepo, markdown.NewMarkdownService(), log)
	runFitScanUC := usecases.NewRunFitScanUseCase(
		opportunityRepo,
		profileRepo,
		fitScanRepo,
		quotaService,
		promptinputs.NewAssembler(),
		executor,
		txManager,
		log,
	)
	getFitScanUC := usecases.NewGetFitScanUseCase(fitScanRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	authHandler := handlers.NewAuthHandler(authService, cfg.Server.FrontendCallbackURL, log)
	profileHandler := handlers.NewProfileHandler(profileService, log)
	opportunityHandler := handlers.NewOpportunityHandler(opportunityService, log)
	fitScanHandler := handlers.NewFitScanHandler(runFitScanUC, getFitScanUC, log)
	entitlementHandler := handlers.NewEntitlementHandler(quotaService, log)
	healthHandler := handlers.NewHealthHandler(gdb)

	engine.GET("/health", healthHandler.Check)

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler: authHandler,
	})
	routes.SetupProfileRoutes(engine, &routes.ProfileRouteConfig{
		ProfileHandler: profileHandler,
		AuthMiddleware: authMiddleware,
	})
	routes.SetupOpportunityRoutes(engine, &routes.OpportunityRouteConfig{
		OpportunityHandler: opportunityHandler,
		AuthMiddleware:     authMiddleware,
	})
	routes.SetupFitScanRoutes(engine, &routes.FitScanRouteConfig{
		FitScanHandler:     fitScanHandler,
		EntitlementHandler: entitlementHandler,
		AuthMiddleware:     authMiddleware,
	})

	return &Router{engine: engine}, nil
}

// Engine exposes the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
