package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
)

// PortfolioLine is one holding enriched with its live valuation. Stale is
// set when the quote provider failed for this symbol and the line still
// carries the last persisted price.
type PortfolioLine struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
	Stale  bool            `json:"stale,omitempty"`
}

// PortfolioView is the result of a valuation pass: every holding at its
// current price plus the total portfolio worth (cash included).
type PortfolioView struct {
	Cash     decimal.Decimal `json:"cash"`
	Holdings []PortfolioLine `json:"holdings"`
	Total    decimal.Decimal `json:"total"`
}

// PortfolioService defines read-side operations: the valuation pass and
// the transaction history.
type PortfolioService interface {
	// Valuation reprices every holding with a live quote, writes the
	// refreshed price/total back onto the holding rows, and returns the
	// enriched view. A quote failure for one symbol does not fail the
	// pass; that line keeps its last persisted price and is marked stale.
	Valuation(ctx context.Context, userID int64) (*PortfolioView, error)
	// History returns a page of the user's ledger in chronological order.
	History(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}

type portfolioService struct {
	dbExecutor  repository.DBExecutor
	userRepo    repository.UserRepository
	holdingRepo repository.HoldingRepository
	ledgerRepo  repository.TransactionRepository
	quotes      quote.Provider
	logger      *slog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	ledgerRepo repository.TransactionRepository,
	quotes quote.Provider,
	logger *slog.Logger,
) PortfolioService {
	return &portfolioService{
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		holdingRepo: holdingRepo,
		ledgerRepo:  ledgerRepo,
		quotes:      quotes,
		logger:      logger,
	}
}

// Valuation performs a full valuation pass. Apart from the write-through
// price refresh it has no side effects and is safe to call repeatedly.
func (s *portfolioService) Valuation(ctx context.Context, userID int64) (*PortfolioView, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("valuation: failed to get user %d: %w", userID, err)
	}

	holdings, err := s.holdingRepo.GetHoldingsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("valuation: failed to get holdings: %w", err)
	}

	view := &PortfolioView{
		Cash:     user.Cash,
		Holdings: make([]PortfolioLine, 0, len(holdings)),
	}

	sum := decimal.Zero
	for _, h := range holdings {
		line := PortfolioLine{
			Symbol: h.Symbol,
			Name:   h.Name,
			Shares: h.Shares,
			Price:  h.Price,
			Total:  h.Total,
		}

		q, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			// Degrade gracefully: keep the last persisted price for this
			// line and flag it instead of failing the whole pass.
			s.logger.Warn("valuation using stale price", "symbol", h.Symbol, "user_id", userID, "error", err)
			line.Stale = true
		} else {
			line.Price = q.Price
			line.Total = q.Price.Mul(decimal.NewFromInt(h.Shares))
			if err := s.holdingRepo.UpdateHoldingValuation(ctx, s.dbExecutor, userID, h.Symbol, line.Price, line.Total); err != nil {
				return nil, fmt.Errorf("valuation: failed to refresh %s: %w", h.Symbol, err)
			}
		}

		sum = sum.Add(line.Total)
		view.Holdings = append(view.Holdings, line)
	}

	view.Total = sum.Add(user.Cash)
	return view, nil
}

// History returns a page of the user's transaction ledger.
func (s *portfolioService) History(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions, totalCount, err := s.ledgerRepo.GetTransactionsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}
	return transactions, totalCount, nil
}
