package service

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
)

// SubscriptionService assembles subscription and plan details from the
// provider into flat views.
type SubscriptionService interface {
	GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error)
	// AssembleViews resolves each subscription reference to its detail and
	// plan name, in input order. A failure on any single reference fails
	// the whole assembly with an error naming that reference.
	AssembleViews(ctx context.Context, ids []string) ([]*subscription.View, error)
	// ListUserSubscriptions assembles the views of the acting user's
	// provider subscriptions. A user without a provider customer, or a
	// customer without subscriptions, yields an empty list.
	ListUserSubscriptions(ctx context.Context) ([]*subscription.View, error)
}

type subscriptionService struct {
	ServiceParams
	resolver ResolverService
}

func NewSubscriptionService(params ServiceParams, resolver ResolverService) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		resolver:      resolver,
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.Provider.GetSubscription(ctx, id)
}

func (s *subscriptionService) AssembleViews(ctx context.Context, ids []string) ([]*subscription.View, error) {
	views := make([]*subscription.View, 0, len(ids))
	for _, id := range ids {
		sub, err := s.Provider.GetSubscription(ctx, id)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to load subscription details").
				WithReportableDetails(map[string]any{"subscription_id": id}).
				Mark(ierr.ErrHTTPClient)
		}

		if sub.PlanID == "" {
			return nil, ierr.NewError("subscription has no plan reference").
				WithHint("Provider subscription is missing its plan").
				WithReportableDetails(map[string]any{"subscription_id": id}).
				Mark(ierr.ErrValidation)
		}

		pl, err := s.Provider.GetPlan(ctx, sub.PlanID)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to load subscription plan").
				WithReportableDetails(map[string]any{
					"subscription_id": id,
					"plan_id":         sub.PlanID,
				}).
				Mark(ierr.ErrHTTPClient)
		}

		views = append(views, &subscription.View{
			SubscriptionID: sub.ID,
			PlanName:       pl.Name,
			StartDate:      sub.StartDate,
		})
	}

	return views, nil
}

func (s *subscriptionService) ListUserSubscriptions(ctx context.Context) ([]*subscription.View, error) {
	usr, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	customerID, err := s.resolver.ResolveCustomerID(ctx, usr)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return []*subscription.View{}, nil
	}

	cust, err := s.Provider.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !cust.HasSubscriptions() {
		return []*subscription.View{}, nil
	}

	return s.AssembleViews(ctx, cust.SubscriptionIDs)
}
