package service

import (
	"context"
	"errors"

	dom "Social/internal/domain"
	"Social/internal/repo"
)

// AccountService handles registration and login.
type AccountService struct {
	repo repo.AccountRepo
}

// NewAccountService returns a new AccountService.
func NewAccountService(repo repo.AccountRepo) *AccountService {
	return &AccountService{repo: repo}
}

// Register creates an account. The lookup is a fast path; the unique
// constraint on username decides concurrent registrations.
func (s *AccountService) Register(ctx context.Context, username, password string) (dom.Account, error) {
	if err := validateAccount(username, password); err != nil {
		return dom.Account{}, err
	}
	_, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return dom.Account{}, ErrUsernameTaken
	case !errors.Is(err, repo.ErrNotFound):
		return dom.Account{}, err
	}

	a, err := s.repo.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return dom.Account{}, ErrUsernameTaken
		}
		return dom.Account{}, err
	}
	return a, nil
}

// Login returns the account when username and password match exactly.
func (s *AccountService) Login(ctx context.Context, username, password string) (dom.Account, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Account{}, ErrInvalidCredentials
		}
		return dom.Account{}, err
	}
	if a.Password != password {
		return dom.Account{}, ErrInvalidCredentials
	}
	return a, nil
}
