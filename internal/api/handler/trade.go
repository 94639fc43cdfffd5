package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"papertrade/internal/service"
	"papertrade/internal/util"
)

// TradeHandler handles buy/sell orders and one-off quote lookups.
type TradeHandler struct {
	service service.TradeService
	logger  *slog.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(svc service.TradeService, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{service: svc, logger: logger}
}

// OrderRequest is the request body for POST /buy and POST /sell. Shares
// arrives as a JSON number; a fractional or non-numeric value fails to
// decode into the int64 and is rejected as invalid input rather than
// silently coerced.
type OrderRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// Buy handles POST /buy.
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, util.ErrUnauthorized)
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, transaction, err := h.service.Buy(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	h.logger.Info("buy executed",
		"user_id", userID,
		"symbol", transaction.Symbol,
		"shares", transaction.Shares,
		"total", transaction.Total,
	)

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Bought",
		"transaction_id": transaction.ID,
		"symbol":         transaction.Symbol,
		"shares":         transaction.Shares,
		"price":          transaction.Price,
		"total":          transaction.Total,
		"cash":           user.Cash,
	})
}

// Sell handles POST /sell.
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, util.ErrUnauthorized)
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, transaction, err := h.service.Sell(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	h.logger.Info("sell executed",
		"user_id", userID,
		"symbol", transaction.Symbol,
		"shares", transaction.Shares,
		"total", transaction.Total,
	)

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Sold",
		"transaction_id": transaction.ID,
		"symbol":         transaction.Symbol,
		"shares":         transaction.Shares,
		"price":          transaction.Price,
		"total":          transaction.Total,
		"cash":           user.Cash,
	})
}

// Quote handles GET /quote/{symbol} — a price lookup with no persistence.
func (h *TradeHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quote, err := h.service.GetQuote(r.Context(), symbol)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, quote)
}
