package router

import (
	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/coffeecommand/backend/internal/infrastructure/auth"
	"github.com/coffeecommand/backend/internal/infrastructure/config"
	"github.com/coffeecommand/backend/internal/infrastructure/logger"
	"github.com/coffeecommand/backend/internal/interfaces/http/dto"
	"github.com/coffeecommand/backend/internal/interfaces/http/handler"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers collects the handlers the router wires up
type Handlers struct {
	System      *handler.SystemHandler
	Access      *handler.AccessHandler
	Branch      *handler.BranchHandler
	Ledger      *handler.LedgerHandler
	Transaction *handler.TransactionHandler
	Admin       *handler.AdminHandler
}

// Dependencies holds everything Setup needs besides the handlers
type Dependencies struct {
	Config     *config.Config
	JWTService *auth.JWTService
	Grants     *access.GrantService
	Logger     *zap.Logger
}

// Setup builds the gin engine: global middleware, the public health route,
// and the authenticated /api/v1 surface
func Setup(deps Dependencies, handlers Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterValidators()

	engine := gin.New()
	_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)

	corsConfig := middleware.DefaultCORSConfig()
	if len(deps.Config.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	}
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.CORSWithConfig(corsConfig),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
	)

	engine.GET("/health", handlers.System.Health)

	api := engine.Group("/api/v1")
	api.Use(
		middleware.JWTAuth(deps.JWTService),
		middleware.LoadPrincipal(deps.Grants, deps.Logger),
	)

	adminOnly := middleware.RequireAdmin()

	handlers.Access.RegisterRoutes(api)
	handlers.Branch.RegisterRoutes(api, adminOnly)
	handlers.Ledger.RegisterRoutes(api)
	handlers.Transaction.RegisterRoutes(api)

	adminGroup := api.Group("")
	adminGroup.Use(adminOnly)
	handlers.Admin.RegisterRoutes(adminGroup)

	return engine
}
