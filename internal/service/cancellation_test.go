package service

import (
	"context"
	"testing"
	"time"

	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/plan"
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/testutil"
	"github.com/nsukonny/ecurring-sync/internal/types"
	"github.com/stretchr/testify/suite"
)

type CancellationServiceSuite struct {
	suite.Suite
	ctx                 context.Context
	provider            *testutil.FakeEcurring
	meta                *testutil.InMemoryUserMetaStore
	cancellationService CancellationService
	usr                 *user.User
}

func TestCancellationService(t *testing.T) {
	suite.Run(t, new(CancellationServiceSuite))
}

func (s *CancellationServiceSuite) SetupTest() {
	s.provider = testutil.NewFakeEcurring()
	s.meta = testutil.NewInMemoryUserMetaStore()
	users := testutil.NewInMemoryUserStore()

	params := newTestServiceParams(s.provider, users, s.meta)
	resolver := NewResolverService(params, NewCustomerService(params))
	s.cancellationService = NewCancellationService(params, resolver)

	s.usr = &user.User{
		ID:       "user_cancel",
		Username: "jane1ab",
		Email:    "jane@example.com",
		Role:     user.RoleEcurring,
	}
	s.NoError(users.Create(context.Background(), s.usr))
	s.ctx = testutil.SetupContext(s.usr.ID)
}

func (s *CancellationServiceSuite) seedCustomerWithSubscription(start time.Time) {
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-jane",
		Email:           "jane@example.com",
		SubscriptionIDs: []string{"sub-1"},
	})
	s.provider.SeedSubscription(&subscription.Subscription{
		ID:        "sub-1",
		Status:    types.SubscriptionStatusActive,
		StartDate: start,
		PlanID:    "plan-1",
	}, &plan.Plan{ID: "plan-1", Name: "Monthly"})
}

func (s *CancellationServiceSuite) TestCancelRequestsStartDatePlusNotice() {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedCustomerWithSubscription(start)

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal(types.CancellationOutcomeCancelled, resp.Outcome)
	s.Equal("sub-1", s.provider.LastCancelID)
	s.Equal(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), s.provider.LastCancelDate)
}

func (s *CancellationServiceSuite) TestCancelPersistsDisplayEndDate() {
	s.seedCustomerWithSubscription(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal("31.01.2023", resp.SubscriptionEndDate)
	s.Equal("31.01.2023", s.meta.Value(s.usr.ID, usermeta.KeySubscriptionEndDate))
}

func (s *CancellationServiceSuite) TestCancelUsesServerDateNotRequested() {
	s.seedCustomerWithSubscription(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	// the provider may normalize the requested date to a billing boundary
	serverDate := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	s.provider.ServerCancelDate = &serverDate

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal("28.02.2023", resp.SubscriptionEndDate)
	s.Equal("28.02.2023", s.meta.Value(s.usr.ID, usermeta.KeySubscriptionEndDate))
}

func (s *CancellationServiceSuite) TestCancelNotConfirmedLeavesStateUntouched() {
	s.seedCustomerWithSubscription(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	s.provider.CancelStatus = types.SubscriptionStatusActive

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal(types.CancellationOutcomeNotConfirmed, resp.Outcome)
	s.Equal("sub-1", resp.SubscriptionID)
	s.Equal("", s.meta.Value(s.usr.ID, usermeta.KeySubscriptionEndDate))
}

func (s *CancellationServiceSuite) TestCancelTransportFailureLeavesStateUntouched() {
	s.seedCustomerWithSubscription(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	s.provider.CancelErr = ierr.NewError("provider request failed").
		WithHint("Provider API returned status 502").
		Mark(ierr.ErrHTTPClient)

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.Error(err)
	s.Nil(resp)
	s.Equal("", s.meta.Value(s.usr.ID, usermeta.KeySubscriptionEndDate))
}

func (s *CancellationServiceSuite) TestCancelWithoutCustomer() {
	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal(types.CancellationOutcomeNoCustomer, resp.Outcome)
	s.Equal(0, s.provider.CancelCalls)
}

func (s *CancellationServiceSuite) TestCancelWithoutSubscriptions() {
	s.provider.SeedCustomer(&customer.Customer{
		ID:    "cust-jane",
		Email: "jane@example.com",
	})

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal(types.CancellationOutcomeNoSubscription, resp.Outcome)
	s.Equal(0, s.provider.CancelCalls)
}

func (s *CancellationServiceSuite) TestCancelTargetsFirstSubscription() {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-jane",
		Email:           "jane@example.com",
		SubscriptionIDs: []string{"sub-b", "sub-a"},
	})
	s.provider.SeedSubscription(&subscription.Subscription{
		ID:        "sub-b",
		Status:    types.SubscriptionStatusActive,
		StartDate: start,
		PlanID:    "plan-1",
	}, &plan.Plan{ID: "plan-1", Name: "Monthly"})
	s.provider.SeedSubscription(&subscription.Subscription{
		ID:        "sub-a",
		Status:    types.SubscriptionStatusActive,
		StartDate: start,
		PlanID:    "plan-1",
	}, nil)

	resp, err := s.cancellationService.Cancel(s.ctx)
	s.NoError(err)
	s.Equal(types.CancellationOutcomeCancelled, resp.Outcome)
	s.Equal("sub-b", resp.SubscriptionID)
	s.Equal("sub-b", s.provider.LastCancelID)
}
