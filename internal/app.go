package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	router "papertrade/internal/api"
	"papertrade/internal/api/handler"
	"papertrade/internal/config"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/repository/postgres"
	"papertrade/internal/service"
	"papertrade/internal/util"
	"papertrade/pkg/db"
)

// Application holds all the initialized components of the service.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository        repository.UserRepository
	HoldingRepository     repository.HoldingRepository
	TransactionRepository repository.TransactionRepository

	// Quote provider (possibly cache-wrapped)
	QuoteProvider quote.Provider

	// Services
	AuthService      service.AuthService
	TradeService     service.TradeService
	PortfolioService service.PortfolioService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates an empty Application ready for Initialize.
func NewApplication() *Application {
	return &Application{}
}

// Initialize wires all components: config, logger, database, Redis, quote
// provider, repositories, services and the HTTP router.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("configuration loaded", "env", cfg.Env)

	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("database connection established")

	app.UserRepository = postgres.NewUserRepository()
	app.HoldingRepository = postgres.NewHoldingRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()

	app.QuoteProvider = quote.NewClient(cfg.Quote.BaseURL, cfg.Quote.APIKey, cfg.Quote.Timeout)
	if cfg.Redis.Addr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		app.QuoteProvider = quote.NewCachedProvider(app.QuoteProvider, app.Redis, cfg.Redis.QuoteTTL, app.Logger)
		app.Logger.Info("quote cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.QuoteTTL)
	}

	app.AuthService = service.NewAuthService(app.DB, app.UserRepository, cfg.StartingCashAmount())
	app.TradeService = service.NewTradeService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		app.QuoteProvider,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.PortfolioService = service.NewPortfolioService(
		app.DB,
		app.UserRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		app.QuoteProvider,
		app.Logger,
	)
	app.Logger.Info("services initialized")

	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger, cfg.JWTSecret, cfg.TokenTTL)
	tradeHandler := handler.NewTradeHandler(app.TradeService, app.Logger)
	portfolioHandler := handler.NewPortfolioHandler(app.PortfolioService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, tradeHandler, portfolioHandler, cfg.JWTSecret, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized")

	return nil
}

// Shutdown releases application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("failed to close Redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	app.Logger.Info("application shut down")
	return nil
}
