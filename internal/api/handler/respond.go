package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"papertrade/internal/util"
)

// DefaultTimeout bounds every request, including the synchronous quote
// lookups buys and sells perform.
const DefaultTimeout = 30 * time.Second

func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps sentinel errors from the service layer onto HTTP
// statuses. Everything unrecognized becomes a generic 500 so internal
// detail never leaks.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrSymbolNotFound):
		statusCode = http.StatusBadRequest
		message = "Unknown stock symbol"
	case util.IsError(err, util.ErrInsufficientShares):
		statusCode = http.StatusBadRequest
		message = "Not enough shares"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusBadRequest
		message = "Username is already taken"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusForbidden
		message = "Not enough cash"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusForbidden
		message = "Invalid username and/or password"
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Authentication required"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrQuoteUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "Quote service unavailable, try again later"
	default:
		logger.Error("unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}
