package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/util"
)

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct{}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository() repository.HoldingRepository {
	return &HoldingRepository{}
}

// GetHoldingsByUserID returns all holdings for a user ordered by symbol.
func (r *HoldingRepository) GetHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT id, user_id, symbol, name, shares, price, total, created_at, updated_at
              FROM holdings WHERE user_id = $1 ORDER BY symbol`
	if err := q.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// GetHolding retrieves the holding for (userID, symbol).
func (r *HoldingRepository) GetHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	query := `SELECT id, user_id, symbol, name, shares, price, total, created_at, updated_at
              FROM holdings WHERE user_id = $1 AND symbol = $2`
	err := q.GetContext(ctx, &holding, query, userID, symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding %s for user %d: %w", symbol, userID, err)
	}
	return &holding, nil
}

// UpsertHolding inserts the holding or, if the user already holds the
// symbol, adds the shares and revalues the whole position at the new
// price.
func (r *HoldingRepository) UpsertHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	query := `INSERT INTO holdings (user_id, symbol, name, shares, price, total, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (user_id, symbol) DO UPDATE SET
                  shares = holdings.shares + EXCLUDED.shares,
                  price = EXCLUDED.price,
                  total = (holdings.shares + EXCLUDED.shares) * EXCLUDED.price,
                  updated_at = EXCLUDED.updated_at
              RETURNING id`
	err := q.QueryRowContext(ctx, query,
		holding.UserID,
		holding.Symbol,
		holding.Name,
		holding.Shares,
		holding.Price,
		holding.Total,
		holding.CreatedAt,
		holding.UpdatedAt,
	).Scan(&holding.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert holding %s for user %d: %w", holding.Symbol, holding.UserID, err)
	}
	return nil
}

// UpdateHoldingShares sets the share count and revalues the position at
// the given price.
func (r *HoldingRepository) UpdateHoldingShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64, price decimal.Decimal) error {
	total := price.Mul(decimal.NewFromInt(shares))
	query := `UPDATE holdings SET shares = $1, price = $2, total = $3, updated_at = $4
              WHERE user_id = $5 AND symbol = $6`
	result, err := q.ExecContext(ctx, query, shares, price, total, time.Now().UTC(), userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update holding %s for user %d: %w", symbol, userID, err)
	}
	return requireRow(result, symbol, userID)
}

// UpdateHoldingValuation refreshes the cached price and line total without
// touching the share count.
func (r *HoldingRepository) UpdateHoldingValuation(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, price, total decimal.Decimal) error {
	query := `UPDATE holdings SET price = $1, total = $2, updated_at = $3
              WHERE user_id = $4 AND symbol = $5`
	result, err := q.ExecContext(ctx, query, price, total, time.Now().UTC(), userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update valuation of %s for user %d: %w", symbol, userID, err)
	}
	return requireRow(result, symbol, userID)
}

// DeleteHolding removes the row for (userID, symbol).
func (r *HoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) error {
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`
	result, err := q.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s for user %d: %w", symbol, userID, err)
	}
	return requireRow(result, symbol, userID)
}

func requireRow(result sql.Result, symbol string, userID int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for holding %s of user %d: %w", symbol, userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("holding %s for user %d: %w", symbol, userID, util.ErrNotFound)
	}
	return nil
}
