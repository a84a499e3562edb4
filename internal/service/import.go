package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nsukonny/ecurring-sync/internal/api/dto"
	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/types"
)

const (
	usernameSuffixLen = 3
	passwordLen       = 12
)

// ImportService creates local accounts for provider customers that hold at
// least one active subscription.
type ImportService interface {
	ImportActiveCustomers(ctx context.Context) (*dto.ImportSummary, error)
}

type importService struct {
	ServiceParams
	customers CustomerService
}

func NewImportService(params ServiceParams, customers CustomerService) ImportService {
	return &importService{
		ServiceParams: params,
		customers:     customers,
	}
}

func (s *importService) ImportActiveCustomers(ctx context.Context) (*dto.ImportSummary, error) {
	customers, err := s.customers.ListAllCustomers(ctx)
	if err != nil {
		return nil, err
	}

	// the email set is read once per run; it is what prevents duplicate
	// account creation
	linked, err := s.UserRepo.ListByRole(ctx, user.RoleEcurring)
	if err != nil {
		return nil, err
	}
	existingEmails := make(map[string]struct{}, len(linked))
	for _, u := range linked {
		existingEmails[u.Email] = struct{}{}
	}

	summary := &dto.ImportSummary{Scanned: len(customers)}

	for _, c := range customers {
		if _, ok := existingEmails[c.Email]; ok {
			summary.Skipped++
			continue
		}
		if !c.HasSubscriptions() {
			summary.Skipped++
			continue
		}

		active, err := s.hasActiveSubscription(ctx, c)
		if err != nil {
			// one broken customer must not stop the run
			s.Logger.Errorw("skipping customer after subscription fetch failure",
				"customer_id", c.ID,
				"error", err)
			summary.Failed++
			continue
		}
		if !active {
			summary.Skipped++
			continue
		}

		if err := s.createAccount(ctx, c); err != nil {
			if ierr.IsAlreadyExists(err) {
				s.Logger.Warnw("account already exists, skipping customer",
					"customer_id", c.ID,
					"email", c.Email)
				summary.Skipped++
				continue
			}
			s.Logger.Errorw("failed to create account for customer",
				"customer_id", c.ID,
				"error", err)
			summary.Failed++
			continue
		}

		summary.Imported++
	}

	s.Logger.Infow("customer import finished",
		"scanned", summary.Scanned,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

// hasActiveSubscription fetches the customer's subscriptions in relationship
// order and stops at the first one whose fresh status is active.
func (s *importService) hasActiveSubscription(ctx context.Context, c *customer.Customer) (bool, error) {
	for _, id := range c.SubscriptionIDs {
		sub, err := s.Provider.GetSubscription(ctx, id)
		if err != nil {
			return false, err
		}
		if sub.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (s *importService) createAccount(ctx context.Context, c *customer.Customer) error {
	username := strings.ToLower(strings.TrimSpace(c.FirstName)) + types.GenerateRandomString(usernameSuffixLen)
	password := types.GenerateRandomString(passwordLen)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to hash generated password").
			Mark(ierr.ErrSystem)
	}

	usr := user.New(username, c.Email, c.FirstName, c.LastName, string(hash), user.RoleEcurring)
	if err := s.UserRepo.Create(ctx, usr); err != nil {
		return err
	}

	// memoize the mapping so later resolutions skip the directory scan
	if err := s.MetaRepo.Set(ctx, usr.ID, usermeta.KeyCustomerID, c.ID); err != nil {
		s.Logger.Warnw("failed to memoize customer mapping for imported user",
			"user_id", usr.ID,
			"customer_id", c.ID,
			"error", err)
	}

	s.Logger.Infow("imported provider customer",
		"customer_id", c.ID,
		"user_id", usr.ID,
		"username", username)

	return nil
}
