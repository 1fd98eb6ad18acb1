package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/clock"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

type AccountRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

// AccountService creates and reads user accounts. Credentials and sessions
// live in the external auth layer; the core never sees a password.
type AccountService struct {
	repo  AccountRepository
	clock clock.Clock
}

func NewAccountService(repo AccountRepository, clk clock.Clock) *AccountService {
	return &AccountService{
		repo:  repo,
		clock: clk,
	}
}

type RegisterInput struct {
	Email string
	Role  domain.Role
}

// Register creates a user with a zero balance.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrEmailRequired
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return domain.User{}, domain.ErrInvalidRole
	}

	user := domain.User{
		ID:        newID(),
		Email:     email,
		Balance:   decimal.Zero,
		Role:      role,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AccountService) Get(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrInvalidID
	}
	return s.repo.GetUser(ctx, userID)
}
