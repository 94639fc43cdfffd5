package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account. Cash is the user's uninvested
// balance, debited on every buy and credited on every sell.
type User struct {
	ID           int64           `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Cash         decimal.Decimal `db:"cash" json:"cash"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User seeded with the given starting cash.
func NewUser(username, passwordHash string, startingCash decimal.Decimal) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         startingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
