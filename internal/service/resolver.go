package service

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
)

// ResolverService maps a local user to their provider customer id.
type ResolverService interface {
	// ResolveCustomerID returns the provider customer id for the user, or
	// "" when the user is not a provider customer. The latter is a valid
	// outcome, not an error.
	ResolveCustomerID(ctx context.Context, usr *user.User) (string, error)
}

type resolverService struct {
	ServiceParams
	customers CustomerService
}

func NewResolverService(params ServiceParams, customers CustomerService) ResolverService {
	return &resolverService{
		ServiceParams: params,
		customers:     customers,
	}
}

func (s *resolverService) ResolveCustomerID(ctx context.Context, usr *user.User) (string, error) {
	// the memoized mapping is a durable cache; hit it before any scan
	cached, err := s.MetaRepo.Get(ctx, usr.ID, usermeta.KeyCustomerID)
	if err != nil {
		return "", err
	}
	if cached != "" {
		return cached, nil
	}

	customers, err := s.customers.ListAllCustomers(ctx)
	if err != nil {
		return "", err
	}

	// exact case-sensitive match, first match wins
	for _, c := range customers {
		if c.Email != usr.Email {
			continue
		}

		if err := s.MetaRepo.Set(ctx, usr.ID, usermeta.KeyCustomerID, c.ID); err != nil {
			// the mapping is still valid, only the memoization is lost
			s.Logger.Warnw("failed to memoize customer mapping",
				"user_id", usr.ID,
				"customer_id", c.ID,
				"error", err)
		}
		return c.ID, nil
	}

	return "", nil
}
