package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/plan"
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	"github.com/nsukonny/ecurring-sync/internal/testutil"
	"github.com/nsukonny/ecurring-sync/internal/types"
	"github.com/stretchr/testify/suite"
)

type ImportServiceSuite struct {
	suite.Suite
	ctx           context.Context
	provider      *testutil.FakeEcurring
	users         *testutil.InMemoryUserStore
	meta          *testutil.InMemoryUserMetaStore
	importService ImportService
}

func TestImportService(t *testing.T) {
	suite.Run(t, new(ImportServiceSuite))
}

func (s *ImportServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.provider = testutil.NewFakeEcurring()
	s.users = testutil.NewInMemoryUserStore()
	s.meta = testutil.NewInMemoryUserMetaStore()

	params := newTestServiceParams(s.provider, s.users, s.meta)
	s.importService = NewImportService(params, NewCustomerService(params))
}

func (s *ImportServiceSuite) seedSubscription(id string, status types.SubscriptionStatus) {
	s.provider.SeedSubscription(&subscription.Subscription{
		ID:        id,
		Status:    status,
		StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		PlanID:    "plan-1",
	}, &plan.Plan{ID: "plan-1", Name: "Monthly"})
}

func (s *ImportServiceSuite) TestImportSkipsCustomerWithoutSubscriptions() {
	s.provider.SeedCustomer(&customer.Customer{
		ID:        "cust-1",
		Email:     "bare@example.com",
		FirstName: "Bare",
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(1, summary.Scanned)
	s.Equal(0, summary.Imported)
	s.Equal(1, summary.Skipped)
	s.Equal(0, s.users.Count())
	s.Empty(s.provider.SubscriptionCalls)
}

func (s *ImportServiceSuite) TestImportSkipsCustomerWithOnlyCancelledSubscriptions() {
	s.seedSubscription("sub-1", types.SubscriptionStatusCancelled)
	s.seedSubscription("sub-2", types.SubscriptionStatusCancelled)
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-1",
		Email:           "lapsed@example.com",
		FirstName:       "Lapsed",
		SubscriptionIDs: []string{"sub-1", "sub-2"},
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(0, summary.Imported)
	s.Equal(1, summary.Skipped)
	s.Equal(0, s.users.Count())
	s.Equal([]string{"sub-1", "sub-2"}, s.provider.SubscriptionCalls)
}

func (s *ImportServiceSuite) TestImportStopsScanningAtFirstActiveSubscription() {
	s.seedSubscription("sub-1", types.SubscriptionStatusCancelled)
	s.seedSubscription("sub-2", types.SubscriptionStatusActive)
	s.seedSubscription("sub-3", types.SubscriptionStatusActive)
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-1",
		Email:           "active@example.com",
		FirstName:       "Active",
		SubscriptionIDs: []string{"sub-1", "sub-2", "sub-3"},
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(1, summary.Imported)
	s.Equal(1, s.users.Count())

	// sub-3 is never fetched once sub-2 answered the question
	s.Equal([]string{"sub-1", "sub-2"}, s.provider.SubscriptionCalls)
}

func (s *ImportServiceSuite) TestImportSkipsExistingEmail() {
	existing := user.New("jane1ab", "jane@example.com", "Jane", "Doe", "hash", user.RoleEcurring)
	s.NoError(s.users.Create(s.ctx, existing))

	s.seedSubscription("sub-1", types.SubscriptionStatusActive)
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-1",
		Email:           "jane@example.com",
		FirstName:       "Jane",
		SubscriptionIDs: []string{"sub-1"},
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(0, summary.Imported)
	s.Equal(1, summary.Skipped)
	s.Equal(1, s.users.Count())

	// known emails are filtered before any account creation attempt
	s.Equal(1, s.users.CreateCalls)
}

func (s *ImportServiceSuite) TestImportedAccountShape() {
	s.seedSubscription("sub-1", types.SubscriptionStatusActive)
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-1",
		Email:           "maria@example.com",
		FirstName:       " Maria ",
		LastName:        "Santos",
		SubscriptionIDs: []string{"sub-1"},
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(1, summary.Imported)

	created := s.users.FindByEmail("maria@example.com")
	s.NotNil(created)
	s.Equal(user.RoleEcurring, created.Role)
	s.Equal("Santos", created.LastName)
	s.True(strings.HasPrefix(created.Username, "maria"))
	s.Len(created.Username, len("maria")+usernameSuffixLen)

	// the stored credential is a bcrypt hash, never the raw password
	_, err = bcrypt.Cost([]byte(created.PasswordHash))
	s.NoError(err)

	s.Equal("cust-1", s.meta.Value(created.ID, usermeta.KeyCustomerID))
}

func (s *ImportServiceSuite) TestImportContinuesPastBrokenCustomer() {
	s.seedSubscription("sub-ok", types.SubscriptionStatusActive)
	s.provider.FailSubscriptions["sub-broken"] = true

	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-broken",
		Email:           "broken@example.com",
		FirstName:       "Broken",
		SubscriptionIDs: []string{"sub-broken"},
	})
	s.provider.SeedCustomer(&customer.Customer{
		ID:              "cust-ok",
		Email:           "fine@example.com",
		FirstName:       "Fine",
		SubscriptionIDs: []string{"sub-ok"},
	})

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(2, summary.Scanned)
	s.Equal(1, summary.Imported)
	s.Equal(1, summary.Failed)
	s.NotNil(s.users.FindByEmail("fine@example.com"))
}

func (s *ImportServiceSuite) TestImportFullDirectoryRun() {
	// 150 customers over two pages; only customer 120 holds an active
	// subscription
	for i := 1; i <= 150; i++ {
		if (i-1)%100 == 0 {
			s.provider.Pages = append(s.provider.Pages, nil)
		}

		c := &customer.Customer{
			ID:        fmt.Sprintf("cust-%d", i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
			FirstName: fmt.Sprintf("Customer%d", i),
		}
		if i == 120 {
			c.Email = "a@x.com"
			c.SubscriptionIDs = []string{"sub-120"}
		}
		s.provider.SeedCustomer(c)
	}
	s.seedSubscription("sub-120", types.SubscriptionStatusActive)

	summary, err := s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal([]int{1, 2}, s.provider.PagesRequested)
	s.Equal(150, summary.Scanned)
	s.Equal(1, summary.Imported)
	s.Equal(149, summary.Skipped)
	s.Equal(1, s.users.Count())
	s.NotNil(s.users.FindByEmail("a@x.com"))

	// a second run sees the already imported email and creates nothing
	summary, err = s.importService.ImportActiveCustomers(s.ctx)
	s.NoError(err)
	s.Equal(0, summary.Imported)
	s.Equal(1, s.users.Count())
}
