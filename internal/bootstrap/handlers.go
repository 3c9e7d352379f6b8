package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/blog-backend/internal/analytics"
	"github.com/eleven-am/blog-backend/internal/gamification"
	"github.com/eleven-am/blog-backend/internal/health"
	"github.com/eleven-am/blog-backend/internal/post"
	"github.com/eleven-am/blog-backend/internal/site"
	"github.com/eleven-am/blog-backend/internal/user"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideSessionManager(cfg *Config) *user.SessionManager {
	return user.NewSessionManager(cfg.HMACKey, cfg.CookieSecure, cfg.CookieDomain)
}

func ProvideAuthMiddleware(sessions *user.SessionManager, store *user.Store, logger *slog.Logger) *user.Middleware {
	return user.NewMiddleware(sessions, store, logger.With("component", "auth"))
}

func ProvideGoogleProvider(cfg *Config) user.Provider {
	p := user.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	if p == nil {
		return nil
	}
	return p
}

func ProvideGamificationEngine(db *gorm.DB, store *gamification.Store, logger *slog.Logger) *gamification.Engine {
	return gamification.NewEngine(db, store, gamification.DefaultRules, logger.With("component", "gamification"))
}

func ProvideReconciler(store *user.Store, engine *gamification.Engine, cfg *Config, logger *slog.Logger) *user.Reconciler {
	return user.NewReconciler(store, engine, cfg.AdminEmail, logger.With("component", "reconciler"))
}

func ProvideUserHandler(store *user.Store, reconciler *user.Reconciler, provider user.Provider, engine *gamification.Engine, sessions *user.SessionManager, logger *slog.Logger) *user.Handler {
	return user.NewHandler(store, reconciler, provider, engine, engine, sessions, logger.With("handler", "user"))
}

func ProvidePostHandler(store *post.Store, engine *gamification.Engine, logger *slog.Logger) *post.Handler {
	return post.NewHandler(store, engine, logger.With("handler", "post"))
}

func ProvideAnalyticsHandler(store *analytics.Store, logger *slog.Logger) *analytics.Handler {
	return analytics.NewHandler(store, logger.With("handler", "analytics"))
}

func ProvideSiteHandler(store *site.Store, logger *slog.Logger) *site.Handler {
	return site.NewHandler(store, logger.With("handler", "site"))
}

func ProvideHealthHandler(db *gorm.DB, redisClient *redis.Client) *health.Handler {
	return health.NewHandler(db, redisClient, version)
}

type HandlerParams struct {
	fx.In

	UserHandler      *user.Handler
	PostHandler      *post.Handler
	AnalyticsHandler *analytics.Handler
	SiteHandler      *site.Handler
	HealthHandler    *health.Handler
	AuthMiddleware   *user.Middleware
	Config           *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	e.Use(params.AnalyticsHandler.Middleware())

	api := e.Group("/v1")

	params.UserHandler.RegisterRoutes(api.Group("/auth"), params.AuthMiddleware)
	params.PostHandler.RegisterRoutes(api, params.AuthMiddleware)
	params.SiteHandler.RegisterRoutes(api.Group("/site"), params.AuthMiddleware)

	dashboard := api.Group("/dashboard")
	dashboard.Use(params.AuthMiddleware.RequireAdmin)
	params.AnalyticsHandler.RegisterRoutes(dashboard)

	params.HealthHandler.RegisterRoutes(e)

	e.Static("/assets", params.Config.StaticDir)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideSessionManager,
		ProvideAuthMiddleware,
		ProvideGoogleProvider,
		ProvideGamificationEngine,
		ProvideReconciler,
		ProvideUserHandler,
		ProvidePostHandler,
		ProvideAnalyticsHandler,
		ProvideSiteHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
