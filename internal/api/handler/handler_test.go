package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"papertrade/internal/domain"
	"papertrade/internal/service"
	"papertrade/internal/util"
)

// MockAuthService mocks service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	args := m.Called(ctx, username, password, confirmation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTradeService mocks service.TradeService.
type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockTradeService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.User, *domain.Transaction, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockTradeService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockPortfolioService mocks service.PortfolioService.
type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) Valuation(ctx context.Context, userID int64) (*service.PortfolioView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PortfolioView), args.Error(1)
}

func (m *MockPortfolioService) History(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(ContextWithUserID(req.Context(), 1))
}

func TestBuyHandler(t *testing.T) {
	logger := util.GetLogger()

	t.Run("Success", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		user := &domain.User{ID: 1, Cash: decimal.NewFromFloat(9500.00)}
		transaction := &domain.Transaction{ID: 42, Symbol: "AAA", Shares: 10, Type: domain.TransactionTypeBuy}
		svc.On("Buy", mock.Anything, int64(1), "AAA", int64(10)).Return(user, transaction, nil).Once()

		rec := httptest.NewRecorder()
		h.Buy(rec, authedRequest(http.MethodPost, "/buy", `{"symbol":"AAA","shares":10}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"transaction_id":42`)
		svc.AssertExpectations(t)
	})

	t.Run("InsufficientFundsMapsTo403", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		svc.On("Buy", mock.Anything, int64(1), "AAA", int64(10)).
			Return(nil, nil, util.ErrInsufficientFunds).Once()

		rec := httptest.NewRecorder()
		h.Buy(rec, authedRequest(http.MethodPost, "/buy", `{"symbol":"AAA","shares":10}`))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("NonIntegerSharesRejectedBeforeService", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		rec := httptest.NewRecorder()
		h.Buy(rec, authedRequest(http.MethodPost, "/buy", `{"symbol":"AAA","shares":1.5}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownSymbolMapsTo400", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		svc.On("Buy", mock.Anything, int64(1), "NOPE", int64(1)).
			Return(nil, nil, util.ErrSymbolNotFound).Once()

		rec := httptest.NewRecorder()
		h.Buy(rec, authedRequest(http.MethodPost, "/buy", `{"symbol":"NOPE","shares":1}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("QuoteOutageMapsTo503", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		svc.On("Buy", mock.Anything, int64(1), "AAA", int64(1)).
			Return(nil, nil, util.ErrQuoteUnavailable).Once()

		rec := httptest.NewRecorder()
		h.Buy(rec, authedRequest(http.MethodPost, "/buy", `{"symbol":"AAA","shares":1}`))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/buy", strings.NewReader(`{"symbol":"AAA","shares":1}`))
		h.Buy(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSellHandler(t *testing.T) {
	logger := util.GetLogger()

	t.Run("InsufficientSharesMapsTo400", func(t *testing.T) {
		svc := new(MockTradeService)
		h := NewTradeHandler(svc, logger)

		svc.On("Sell", mock.Anything, int64(1), "AAA", int64(99)).
			Return(nil, nil, util.ErrInsufficientShares).Once()

		rec := httptest.NewRecorder()
		h.Sell(rec, authedRequest(http.MethodPost, "/sell", `{"symbol":"AAA","shares":99}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Not enough shares")
		svc.AssertExpectations(t)
	})
}

func TestQuoteHandler(t *testing.T) {
	logger := util.GetLogger()
	svc := new(MockTradeService)
	h := NewTradeHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/quote/{symbol}", h.Quote)

	svc.On("GetQuote", mock.Anything, "AAA").
		Return(&domain.Quote{Symbol: "AAA", Name: "AAA", Price: decimal.NewFromFloat(50.00)}, nil).Once()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/quote/AAA", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AAA"`)
	svc.AssertExpectations(t)
}

func TestRegisterHandler(t *testing.T) {
	logger := util.GetLogger()

	t.Run("SuccessSetsSessionCookie", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, logger, "test-secret", time.Hour)

		user := &domain.User{ID: 1, Username: "alice", Cash: decimal.NewFromFloat(10000.00)}
		svc.On("Register", mock.Anything, "alice", "hunter2", "hunter2").Return(user, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"username":"alice","password":"hunter2","confirmation":"hunter2"}`))
		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token"`)

		cookies := rec.Result().Cookies()
		var found bool
		for _, c := range cookies {
			if c.Name == SessionCookie && c.Value != "" {
				found = true
			}
		}
		assert.True(t, found, "expected %s cookie to be set", SessionCookie)
		svc.AssertExpectations(t)
	})

	t.Run("DuplicateUsernameMapsTo400", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, logger, "test-secret", time.Hour)

		svc.On("Register", mock.Anything, "alice", "hunter2", "hunter2").
			Return(nil, util.ErrDuplicateEntry).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"username":"alice","password":"hunter2","confirmation":"hunter2"}`))
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "taken")
		svc.AssertExpectations(t)
	})
}

func TestLoginHandler(t *testing.T) {
	logger := util.GetLogger()

	t.Run("BadCredentialsMapTo403WithGenericMessage", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, logger, "test-secret", time.Hour)

		svc.On("Login", mock.Anything, "alice", "wrong").
			Return(nil, util.ErrInvalidCredentials).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"alice","password":"wrong"}`))
		h.Login(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username and/or password")
		svc.AssertExpectations(t)
	})
}

func TestLogoutHandler(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, util.GetLogger(), "test-secret", time.Hour)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected %s cookie to be expired", SessionCookie)
}

func TestPortfolioHandler(t *testing.T) {
	logger := util.GetLogger()
	svc := new(MockPortfolioService)
	h := NewPortfolioHandler(svc, logger)

	view := &service.PortfolioView{
		Cash:  decimal.NewFromFloat(9500.00),
		Total: decimal.NewFromFloat(10000.00),
		Holdings: []service.PortfolioLine{
			{Symbol: "AAA", Shares: 10, Price: decimal.NewFromFloat(50.00), Total: decimal.NewFromFloat(500.00)},
		},
	}
	svc.On("Valuation", mock.Anything, int64(1)).Return(view, nil).Once()

	rec := httptest.NewRecorder()
	h.Portfolio(rec, authedRequest(http.MethodGet, "/", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AAA"`)
	svc.AssertExpectations(t)
}

func TestHistoryHandler(t *testing.T) {
	logger := util.GetLogger()
	svc := new(MockPortfolioService)
	h := NewPortfolioHandler(svc, logger)

	rows := []domain.Transaction{{ID: 1, Symbol: "AAA", Type: domain.TransactionTypeBuy}}
	svc.On("History", mock.Anything, int64(1), 50, 0).Return(rows, int64(1), nil).Once()

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest(http.MethodGet, "/history", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)
	svc.AssertExpectations(t)
}
