package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/plan"
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	"github.com/nsukonny/ecurring-sync/internal/ecurring"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/types"
)

// FakeEcurring implements ecurring.Client against seeded in-memory data.
// Call counters let tests assert how many provider round trips a flow made.
type FakeEcurring struct {
	mu sync.Mutex

	// Pages is the customer directory split into pages, 1-indexed at
	// Pages[0]. Pages beyond the slice come back empty.
	Pages [][]*customer.Customer
	// EndlessNext makes every page advertise a further page
	EndlessNext bool
	// FailPage, when non-zero, makes listing that page fail
	FailPage int

	Customers     map[string]*customer.Customer
	Subscriptions map[string]*subscription.Subscription
	Plans         map[string]*plan.Plan

	// FailSubscriptions lists subscription ids whose fetch fails
	FailSubscriptions map[string]bool

	// CancelStatus is the status the provider reports after a cancel PATCH
	CancelStatus types.SubscriptionStatus
	// ServerCancelDate, when set, overrides the requested cancel date in the
	// provider's response
	ServerCancelDate *time.Time
	CancelErr        error

	ListCalls         int
	PagesRequested    []int
	GetCustomerCalls  int
	SubscriptionCalls []string
	GetPlanCalls      int
	CancelCalls       int
	LastCancelID      string
	LastCancelDate    time.Time
}

// NewFakeEcurring creates an empty fake provider.
func NewFakeEcurring() *FakeEcurring {
	return &FakeEcurring{
		Customers:         make(map[string]*customer.Customer),
		Subscriptions:     make(map[string]*subscription.Subscription),
		Plans:             make(map[string]*plan.Plan),
		FailSubscriptions: make(map[string]bool),
		CancelStatus:      types.SubscriptionStatusCancelled,
	}
}

// SeedCustomer registers a customer and appends it to the last page.
func (f *FakeEcurring) SeedCustomer(c *customer.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Customers[c.ID] = c
	if len(f.Pages) == 0 {
		f.Pages = append(f.Pages, nil)
	}
	f.Pages[len(f.Pages)-1] = append(f.Pages[len(f.Pages)-1], c)
}

// SeedSubscription registers a subscription and its plan.
func (f *FakeEcurring) SeedSubscription(s *subscription.Subscription, p *plan.Plan) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Subscriptions[s.ID] = s
	if p != nil {
		f.Plans[p.ID] = p
	}
}

func (f *FakeEcurring) ListCustomers(ctx context.Context, page int) (*ecurring.CustomerPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListCalls++
	f.PagesRequested = append(f.PagesRequested, page)

	if f.FailPage != 0 && page == f.FailPage {
		return nil, ierr.NewError("provider request failed").
			WithHint("Provider API returned status 500").
			Mark(ierr.ErrHTTPClient)
	}

	// an endless directory serves its pages over and over, always
	// advertising a next page
	if f.EndlessNext && len(f.Pages) > 0 {
		return &ecurring.CustomerPage{
			Customers: f.Pages[(page-1)%len(f.Pages)],
			HasNext:   true,
		}, nil
	}

	if page < 1 || page > len(f.Pages) {
		return &ecurring.CustomerPage{}, nil
	}

	return &ecurring.CustomerPage{
		Customers: f.Pages[page-1],
		HasNext:   page < len(f.Pages),
	}, nil
}

func (f *FakeEcurring) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetCustomerCalls++
	c, ok := f.Customers[id]
	if !ok {
		return nil, ierr.NewError("customer not found").
			WithHint("Provider resource not found").
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (f *FakeEcurring) GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SubscriptionCalls = append(f.SubscriptionCalls, id)
	if f.FailSubscriptions[id] {
		return nil, ierr.NewError("provider request failed").
			WithHint("Provider API returned status 500").
			Mark(ierr.ErrHTTPClient)
	}

	s, ok := f.Subscriptions[id]
	if !ok {
		return nil, ierr.NewError("subscription not found").
			WithHint("Provider resource not found").
			Mark(ierr.ErrNotFound)
	}
	return s, nil
}

func (f *FakeEcurring) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetPlanCalls++
	p, ok := f.Plans[id]
	if !ok {
		return nil, ierr.NewError("plan not found").
			WithHint("Provider resource not found").
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (f *FakeEcurring) CancelSubscription(ctx context.Context, id string, cancelDate time.Time) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CancelCalls++
	f.LastCancelID = id
	f.LastCancelDate = cancelDate

	if f.CancelErr != nil {
		return nil, f.CancelErr
	}

	s, ok := f.Subscriptions[id]
	if !ok {
		return nil, ierr.NewError("subscription not found").
			WithHint("Provider resource not found").
			Mark(ierr.ErrNotFound)
	}

	serverDate := cancelDate
	if f.ServerCancelDate != nil {
		serverDate = *f.ServerCancelDate
	}

	updated := *s
	updated.Status = f.CancelStatus
	if f.CancelStatus == types.SubscriptionStatusCancelled {
		updated.CancelDate = &serverDate
	}
	f.Subscriptions[id] = &updated
	return &updated, nil
}
