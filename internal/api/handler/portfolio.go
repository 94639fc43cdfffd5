package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"papertrade/internal/api/types"
	"papertrade/internal/domain"
	"papertrade/internal/service"
	"papertrade/internal/util"
)

// PortfolioHandler handles the portfolio view and transaction history.
type PortfolioHandler struct {
	service service.PortfolioService
	logger  *slog.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(svc service.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: svc, logger: logger}
}

// Portfolio handles GET / — the valuation pass over all holdings.
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, util.ErrUnauthorized)
		return
	}

	view, err := h.service.Valuation(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, view)
}

// History handles GET /history — the user's ledger in chronological order.
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, util.ErrUnauthorized)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, totalCount, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
