package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
)

// AccountService manages cloud account registration and lifecycle
type AccountService struct {
	accounts        account.Repository
	instances       inventory.Repository
	recommendations recommendation.Repository
	logger          *logger.Logger
}

func NewAccountService(
	accounts account.Repository,
	instances inventory.Repository,
	recommendations recommendation.Repository,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		accounts:        accounts,
		instances:       instances,
		recommendations: recommendations,
		logger:          log,
	}
}

// CreateInput carries the fields accepted when registering an account
type CreateInput struct {
	Provider      string `json:"provider" validate:"required,oneof=aws azure gcp do"`
	Name          string `json:"name" validate:"required,min=1,max=255"`
	CredentialRef string `json:"credential_ref"`
}

// UpdateInput carries the patchable account fields
type UpdateInput struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	CredentialRef *string `json:"credential_ref"`
}

func (s *AccountService) Create(ctx context.Context, in CreateInput) (*account.Account, error) {
	if !account.ValidProvider(in.Provider) {
		return nil, errors.ValidationError("invalid provider", map[string]string{"provider": in.Provider})
	}
	if in.Name == "" {
		return nil, errors.ValidationError("name is required", nil)
	}

	acct := &account.Account{
		ID:            uuid.New().String(),
		Provider:      in.Provider,
		Name:          in.Name,
		CredentialRef: in.CredentialRef,
		Status:        account.StatusConnected,
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}
	s.logger.Infof("account %s registered for provider %s", acct.ID, acct.Provider)
	return acct, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*account.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	return s.accounts.List(ctx, filter)
}

func (s *AccountService) Update(ctx context.Context, id string, in UpdateInput) (*account.Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, errors.ValidationError("name cannot be empty", nil)
		}
		acct.Name = *in.Name
	}
	if in.CredentialRef != nil {
		acct.CredentialRef = *in.CredentialRef
	}
	if err := s.accounts.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Delete removes the account together with its instances and open
// recommendations.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.instances.DeleteByAccount(ctx, id); err != nil {
		return err
	}
	if err := s.recommendations.DeleteOpenByAccount(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("account %s deleted", id)
	return nil
}

// Enable moves a disabled account back into rotation.
func (s *AccountService) Enable(ctx context.Context, id string) (*account.Account, error) {
	return s.transition(ctx, id, account.StatusConnected)
}

// Disable takes an account out of sync rotation.
func (s *AccountService) Disable(ctx context.Context, id string) (*account.Account, error) {
	return s.transition(ctx, id, account.StatusDisabled)
}

func (s *AccountService) transition(ctx context.Context, id, to string) (*account.Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.Status == to {
		return acct, nil
	}
	if !account.CanTransition(acct.Status, to) {
		return nil, errors.ValidationError("illegal status transition", map[string]string{
			"from": acct.Status,
			"to":   to,
		})
	}
	acct.Status = to
	acct.LastError = ""
	if err := s.accounts.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}
