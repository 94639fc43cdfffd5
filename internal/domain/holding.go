package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's position in one ticker symbol, unique per
// (user_id, symbol). Price and Total are the last-seen quote and line
// value, refreshed on every trade and every valuation pass. A holding
// never exists with zero shares; the row is deleted instead.
type Holding struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Symbol    string          `db:"symbol" json:"symbol"`
	Name      string          `db:"name" json:"name"`
	Shares    int64           `db:"shares" json:"shares"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Total     decimal.Decimal `db:"total" json:"total"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewHolding creates a holding valued at the given price.
func NewHolding(userID int64, symbol, name string, shares int64, price decimal.Decimal) *Holding {
	now := time.Now().UTC()
	return &Holding{
		UserID:    userID,
		Symbol:    symbol,
		Name:      name,
		Shares:    shares,
		Price:     price,
		Total:     price.Mul(decimal.NewFromInt(shares)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
