package service

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
)

// CustomerService retrieves the provider customer directory.
type CustomerService interface {
	// ListAllCustomers fetches the full paginated customer directory in
	// page order. A failure on any page aborts the whole listing: callers
	// get either the complete directory or an error, never a silent
	// partial list.
	ListAllCustomers(ctx context.Context) ([]*customer.Customer, error)
	GetCustomer(ctx context.Context, id string) (*customer.Customer, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) ListAllCustomers(ctx context.Context) ([]*customer.Customer, error) {
	maxPages := s.Config.Ecurring.MaxPages

	customers := []*customer.Customer{}
	for page := 1; ; page++ {
		// a malformed server response advertising next forever must not
		// loop us indefinitely
		if page > maxPages {
			return nil, ierr.NewError("customer directory pagination did not terminate").
				WithHintf("Provider kept advertising next pages beyond the limit of %d", maxPages).
				Mark(ierr.ErrSystem)
		}

		result, err := s.Provider.ListCustomers(ctx, page)
		if err != nil {
			return nil, err
		}

		if len(result.Customers) == 0 {
			break
		}

		customers = append(customers, result.Customers...)

		if !result.HasNext {
			break
		}
	}

	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.Provider.GetCustomer(ctx, id)
}
