package repository

import (
	"context"

	"papertrade/internal/domain"
)

// TransactionRepository defines the interface for the append-only trade
// ledger. There is deliberately no update or delete operation.
type TransactionRepository interface {
	// CreateTransaction appends a ledger row.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByUserID retrieves a user's ledger in insertion order,
	// with the total row count for pagination.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}
