package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account after validation.
// Implements portssvc.AccountWriterSvc
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, caller domain.Caller) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid account type: %s", req.AccountType))
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("parent account %d not found", *req.ParentAccountID))
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		// A child account inherits its position in the statement from the parent
		if parent.AccountType != req.AccountType {
			return nil, apperrors.NewValidationError("parent account type does not match")
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Balance:         decimal.Zero,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account code %s already exists: %w", req.Code, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.Int64("account_id", saved.AccountID), slog.String("code", saved.Code))
	return saved, nil
}

// GetAccountByID retrieves a specific account by its unique identifier.
// Implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.Int64("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its chart-of-accounts code.
// Implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves accounts ordered by code, optionally filtered by type.
// Implements portssvc.AccountReaderSvc
func (s *accountService) ListAccounts(ctx context.Context, accountType *domain.AccountType) ([]domain.Account, error) {
	if accountType != nil && !accountType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid account type: %s", *accountType))
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates an existing account's details.
// Implements portssvc.AccountWriterSvc
func (s *accountService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest, caller domain.Caller) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = caller.UserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.Int64("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account as inactive. The account's history is
// preserved; it just stops accepting new lines.
// Implements portssvc.AccountWriterSvc
func (s *accountService) DeactivateAccount(ctx context.Context, accountID int64, caller domain.Caller) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to find account %d: %w", accountID, err)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, caller.UserID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.Int64("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated", slog.Int64("account_id", accountID))
	return nil
}
