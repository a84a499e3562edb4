package service

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/api/dto"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	"github.com/nsukonny/ecurring-sync/internal/types"
)

// displayDateFormat is how the confirmed cancellation date is persisted to
// user metadata for display (day.month.year).
const displayDateFormat = "02.01.2006"

// cancelNoticeDays is the notice period added to the subscription start
// date to compute the requested cancellation date.
const cancelNoticeDays = 30

// CancellationService runs the subscription cancellation workflow for the
// acting user.
type CancellationService interface {
	// Cancel resolves the user's provider customer, targets its first
	// subscription and asks the provider to cancel it. Local metadata is
	// mutated only when the provider confirms a cancelled status; every
	// other path is a no-op reported through the outcome.
	Cancel(ctx context.Context) (*dto.CancelSubscriptionResponse, error)
}

type cancellationService struct {
	ServiceParams
	resolver ResolverService
}

func NewCancellationService(params ServiceParams, resolver ResolverService) CancellationService {
	return &cancellationService{
		ServiceParams: params,
		resolver:      resolver,
	}
}

func (s *cancellationService) Cancel(ctx context.Context) (*dto.CancelSubscriptionResponse, error) {
	usr, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	customerID, err := s.resolver.ResolveCustomerID(ctx, usr)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return &dto.CancelSubscriptionResponse{
			Outcome: types.CancellationOutcomeNoCustomer,
		}, nil
	}

	cust, err := s.Provider.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !cust.HasSubscriptions() {
		return &dto.CancelSubscriptionResponse{
			Outcome: types.CancellationOutcomeNoSubscription,
		}, nil
	}

	// Always the first subscription in the provider's relationship order,
	// regardless of its status or recency. Known limitation: a customer
	// with several subscriptions may see the wrong one targeted.
	subscriptionID := cust.SubscriptionIDs[0]

	sub, err := s.Provider.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	cancelDate := sub.StartDate.AddDate(0, 0, cancelNoticeDays)

	updated, err := s.Provider.CancelSubscription(ctx, subscriptionID, cancelDate)
	if err != nil {
		return nil, err
	}

	if updated.Status != types.SubscriptionStatusCancelled || updated.CancelDate == nil {
		s.Logger.Warnw("provider did not confirm cancellation",
			"subscription_id", subscriptionID,
			"status", updated.Status)
		return &dto.CancelSubscriptionResponse{
			Outcome:        types.CancellationOutcomeNotConfirmed,
			SubscriptionID: subscriptionID,
		}, nil
	}

	// the server's cancel_date is authoritative, not the one we requested
	endDate := updated.CancelDate.Format(displayDateFormat)
	if err := s.MetaRepo.Set(ctx, usr.ID, usermeta.KeySubscriptionEndDate, endDate); err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription cancelled",
		"user_id", usr.ID,
		"subscription_id", subscriptionID,
		"end_date", endDate)

	return &dto.CancelSubscriptionResponse{
		Outcome:             types.CancellationOutcomeCancelled,
		SubscriptionID:      subscriptionID,
		SubscriptionEndDate: endDate,
	}, nil
}
