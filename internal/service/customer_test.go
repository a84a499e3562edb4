// Test code for the customer directory service
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/nsukonny/ecurring-sync/internal/config"
	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// newTestServiceParams wires the services to in-memory collaborators.
func newTestServiceParams(
	provider *testutil.FakeEcurring,
	users *testutil.InMemoryUserStore,
	meta *testutil.InMemoryUserMetaStore,
) ServiceParams {
	return ServiceParams{
		Logger:   logger.L,
		Config:   config.GetDefaultConfig(),
		Provider: provider,
		UserRepo: users,
		MetaRepo: meta,
	}
}

// seedDirectory fills the fake provider with n customers spread over pages
// of the given size. Customer i gets id "cust-i".
func seedDirectory(provider *testutil.FakeEcurring, n, pageSize int) {
	for i := 1; i <= n; i++ {
		if (i-1)%pageSize == 0 {
			provider.Pages = append(provider.Pages, nil)
		}
		provider.SeedCustomer(&customer.Customer{
			ID:        fmt.Sprintf("cust-%d", i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
			FirstName: fmt.Sprintf("Customer%d", i),
		})
	}
}

type CustomerServiceSuite struct {
	suite.Suite
	ctx             context.Context
	provider        *testutil.FakeEcurring
	customerService CustomerService
	params          ServiceParams
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.provider = testutil.NewFakeEcurring()
	s.params = newTestServiceParams(s.provider, testutil.NewInMemoryUserStore(), testutil.NewInMemoryUserMetaStore())
	s.customerService = NewCustomerService(s.params)
}

func (s *CustomerServiceSuite) TestListAllCustomersSpansPages() {
	seedDirectory(s.provider, 150, 100)

	customers, err := s.customerService.ListAllCustomers(s.ctx)
	s.NoError(err)
	s.Len(customers, 150)

	// page order is preserved and every page is fetched exactly once
	s.Equal("cust-1", customers[0].ID)
	s.Equal("cust-100", customers[99].ID)
	s.Equal("cust-101", customers[100].ID)
	s.Equal("cust-150", customers[149].ID)
	s.Equal([]int{1, 2}, s.provider.PagesRequested)
}

func (s *CustomerServiceSuite) TestListAllCustomersEmptyDirectory() {
	customers, err := s.customerService.ListAllCustomers(s.ctx)
	s.NoError(err)
	s.Empty(customers)
	s.Equal(1, s.provider.ListCalls)
}

func (s *CustomerServiceSuite) TestListAllCustomersStopsWithoutNextLink() {
	seedDirectory(s.provider, 40, 100)

	customers, err := s.customerService.ListAllCustomers(s.ctx)
	s.NoError(err)
	s.Len(customers, 40)
	s.Equal(1, s.provider.ListCalls)
}

func (s *CustomerServiceSuite) TestListAllCustomersBoundedAgainstEndlessNext() {
	seedDirectory(s.provider, 10, 5)
	s.provider.EndlessNext = true
	s.params.Config.Ecurring.MaxPages = 4
	s.customerService = NewCustomerService(s.params)

	customers, err := s.customerService.ListAllCustomers(s.ctx)
	s.Error(err)
	s.Nil(customers)
	s.LessOrEqual(s.provider.ListCalls, 4)

	var ie *errors.InternalError
	s.True(stderrors.As(err, &ie))
	s.Equal(errors.ErrCodeSystemError, ie.Code)
}

func (s *CustomerServiceSuite) TestListAllCustomersFailsWholeListingOnPageError() {
	seedDirectory(s.provider, 250, 100)
	s.provider.FailPage = 2

	customers, err := s.customerService.ListAllCustomers(s.ctx)
	s.Error(err)
	s.Nil(customers)
	s.True(errors.IsHTTPClient(err))
}

func (s *CustomerServiceSuite) TestGetCustomer() {
	seedDirectory(s.provider, 3, 100)

	cust, err := s.customerService.GetCustomer(s.ctx, "cust-2")
	s.NoError(err)
	s.Equal("customer2@example.com", cust.Email)

	_, err = s.customerService.GetCustomer(s.ctx, "cust-missing")
	s.Error(err)
	s.True(errors.IsNotFound(err))
}
