package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"papertrade/internal/api/handler"
)

// NewRouter sets up and returns the HTTP router. Every response is marked
// non-cacheable: these are session-bearing pages with live financial data.
func NewRouter(
	authHandler *handler.AuthHandler,
	tradeHandler *handler.TradeHandler,
	portfolioHandler *handler.PortfolioHandler,
	jwtSecret string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public identity endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// Everything else requires a session
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(jwtSecret))

		r.Get("/", portfolioHandler.Portfolio)
		r.Get("/history", portfolioHandler.History)
		r.Get("/quote/{symbol}", tradeHandler.Quote)
		r.Post("/buy", tradeHandler.Buy)
		r.Post("/sell", tradeHandler.Sell)
	})

	return r
}
