package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/util"
	"papertrade/pkg/db"
)

// TradeService defines the interface for buy/sell state changes and
// one-off quote lookups.
type TradeService interface {
	// Buy purchases shares of symbol at the current quoted price. The
	// ledger insert, holding upsert and cash debit commit as one database
	// transaction.
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error)
	// Sell disposes of shares of symbol at the current quoted price. The
	// ledger insert, holding decrement (or delete at zero) and cash credit
	// commit as one database transaction.
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error)
	// GetQuote performs a one-off price lookup with no persistence.
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type tradeService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	userRepo    repository.UserRepository
	holdingRepo repository.HoldingRepository
	ledgerRepo  repository.TransactionRepository
	quotes      quote.Provider
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewTradeService creates a new TradeService.
func NewTradeService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	ledgerRepo repository.TransactionRepository,
	quotes quote.Provider,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TradeService {
	return &tradeService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		holdingRepo: holdingRepo,
		ledgerRepo:  ledgerRepo,
		quotes:      quotes,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// validateOrder checks the symbol/shares pair common to buy and sell.
func validateOrder(symbol string, shares int64) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("must provide a stock symbol: %w", util.ErrInvalidInput)
	}
	if shares < 1 {
		return "", fmt.Errorf("number of shares must be a positive integer: %w", util.ErrInvalidInput)
	}
	return symbol, nil
}

// Buy purchases shares at the current quoted price.
func (s *tradeService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, nil, err
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("buy %s: %w", symbol, err)
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to get user %d: %w", userID, err)
	}
	if user.Cash.LessThan(cost) {
		return nil, nil, fmt.Errorf("need %s, have %s: %w", cost, user.Cash, util.ErrInsufficientFunds)
	}

	transaction := domain.NewTransaction(userID, q.Symbol, q.Name, shares, q.Price, domain.TransactionTypeBuy)
	if err := s.ledgerRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to append ledger row: %w", err)
	}

	holding := domain.NewHolding(userID, q.Symbol, q.Name, shares, q.Price)
	if err := s.holdingRepo.UpsertHolding(ctx, txExecutor, holding); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to upsert holding: %w", err)
	}

	if err := s.userRepo.UpdateCashBalance(ctx, txExecutor, userID, cost.Neg()); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to debit cash: %w", err)
	}

	updatedUser, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to re-fetch user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	return updatedUser, transaction, nil
}

// Sell disposes of shares at the current quoted price.
func (s *tradeService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, nil, err
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("sell %s: %w", symbol, err)
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	holding, err := s.holdingRepo.GetHolding(ctx, txExecutor, userID, symbol)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil, fmt.Errorf("no position in %s: %w", symbol, util.ErrInsufficientShares)
		}
		return nil, nil, fmt.Errorf("sell: failed to get holding: %w", err)
	}
	if holding.Shares < shares {
		return nil, nil, fmt.Errorf("have %d shares of %s, requested %d: %w",
			holding.Shares, symbol, shares, util.ErrInsufficientShares)
	}

	transaction := domain.NewTransaction(userID, q.Symbol, q.Name, shares, q.Price, domain.TransactionTypeSell)
	if err := s.ledgerRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to append ledger row: %w", err)
	}

	if err := s.userRepo.UpdateCashBalance(ctx, txExecutor, userID, proceeds); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to credit cash: %w", err)
	}

	remaining := holding.Shares - shares
	if remaining == 0 {
		if err := s.holdingRepo.DeleteHolding(ctx, txExecutor, userID, symbol); err != nil {
			return nil, nil, fmt.Errorf("sell: failed to delete holding: %w", err)
		}
	} else {
		if err := s.holdingRepo.UpdateHoldingShares(ctx, txExecutor, userID, symbol, remaining, q.Price); err != nil {
			return nil, nil, fmt.Errorf("sell: failed to update holding: %w", err)
		}
	}

	updatedUser, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("sell: failed to re-fetch user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to commit transaction: %w", err)
	}

	return updatedUser, transaction, nil
}

// GetQuote performs a one-off lookup with no persistence.
func (s *tradeService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("must provide a stock symbol: %w", util.ErrInvalidInput)
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	return q, nil
}
