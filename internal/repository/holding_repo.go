package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// HoldingRepository defines the interface for holding data operations.
// A holding is unique per (user_id, symbol) and never exists with zero
// shares.
type HoldingRepository interface {
	// GetHoldingsByUserID returns all of a user's holdings ordered by symbol.
	GetHoldingsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
	// GetHolding retrieves one holding, or util.ErrNotFound.
	GetHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) (*domain.Holding, error)
	// UpsertHolding inserts the holding, or on (user_id, symbol) conflict
	// adds its shares to the existing row and revalues it at holding.Price.
	UpsertHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// UpdateHoldingShares sets the share count and revalues the row at price.
	UpdateHoldingShares(ctx context.Context, q DBExecutor, userID int64, symbol string, shares int64, price decimal.Decimal) error
	// UpdateHoldingValuation refreshes the cached price and line total.
	UpdateHoldingValuation(ctx context.Context, q DBExecutor, userID int64, symbol string, price, total decimal.Decimal) error
	// DeleteHolding removes the row entirely.
	DeleteHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) error
}
