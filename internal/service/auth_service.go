package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/util"
)

// AuthService defines the interface for account registration and login.
type AuthService interface {
	// Register creates an account seeded with the configured starting cash.
	Register(ctx context.Context, username, password, confirmation string) (*domain.User, error)
	// Login verifies credentials. Unknown username and wrong password both
	// return util.ErrInvalidCredentials so the response cannot be used to
	// enumerate accounts.
	Login(ctx context.Context, username, password string) (*domain.User, error)
	// GetUser resolves an authenticated identity to its account.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	dbExecutor   repository.DBExecutor
	userRepo     repository.UserRepository
	startingCash decimal.Decimal
}

// NewAuthService creates a new AuthService.
func NewAuthService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, startingCash decimal.Decimal) AuthService {
	return &authService{
		dbExecutor:   dbExecutor,
		userRepo:     userRepo,
		startingCash: startingCash,
	}
}

// Register creates a new account. Duplicate usernames surface as
// util.ErrDuplicateEntry from the repository; no user row is created on
// any failure.
func (s *authService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("must provide username: %w", util.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("must provide password: %w", util.ErrInvalidInput)
	}
	if confirmation == "" {
		return nil, fmt.Errorf("must confirm password: %w", util.ErrInvalidInput)
	}
	if password != confirmation {
		return nil, fmt.Errorf("password and confirmation do not match: %w", util.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(username, string(hash), s.startingCash)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the username/password pair.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, util.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser resolves a user id to its account.
func (s *authService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
