package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes the two sides of the ledger.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is one immutable row of the trade ledger. Rows are only
// ever appended; there is no update or delete path.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	Symbol     string          `db:"symbol" json:"symbol"`
	Name       string          `db:"name" json:"name"`
	Shares     int64           `db:"shares" json:"shares"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Type       TransactionType `db:"type" json:"type"`
	Transacted time.Time       `db:"transacted" json:"transacted"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a ledger row for a trade of shares at price.
func NewTransaction(userID int64, symbol, name string, shares int64, price decimal.Decimal, txType TransactionType) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		UserID:     userID,
		Symbol:     symbol,
		Name:       name,
		Shares:     shares,
		Price:      price,
		Total:      price.Mul(decimal.NewFromInt(shares)),
		Type:       txType,
		Transacted: now,
		CreatedAt:  now,
	}
}
