package postgres

import (
	"context"
	"fmt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL. The transactions table is append-only; this type exposes no
// way to modify a written row.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a ledger row.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, symbol, name, shares, price, total, type, transacted, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Symbol,
		transaction.Name,
		transaction.Shares,
		transaction.Price,
		transaction.Total,
		transaction.Type,
		transaction.Transacted,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUserID retrieves a page of the user's ledger in
// insertion order (ids are monotonic, so id order is chronological), plus
// the total row count.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, user_id, symbol, name, shares, price, total, type, transacted, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}

	return transactions, totalCount, nil
}
