package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user. A username collision surfaces as
	// util.ErrDuplicateEntry, distinct from util.ErrNotFound.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// UpdateCashBalance applies a signed delta to the user's cash.
	UpdateCashBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
