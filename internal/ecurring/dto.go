package ecurring

import (
	"time"

	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/plan"
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/types"
	"github.com/samber/lo"
)

// The provider speaks JSON:API: every response wraps its payload in a
// {data: {id, type, attributes, relationships}} envelope, lists add a
// links.next pagination cursor.

type resourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type relationshipList struct {
	Data []resourceRef `json:"data"`
}

type relationshipOne struct {
	Data resourceRef `json:"data"`
}

type pageLinks struct {
	Next string `json:"next"`
}

type customerAttributes struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type customerResource struct {
	ID            string             `json:"id"`
	Attributes    customerAttributes `json:"attributes"`
	Relationships struct {
		Subscriptions relationshipList `json:"subscriptions"`
	} `json:"relationships"`
}

type customerListEnvelope struct {
	Data  []customerResource `json:"data"`
	Links pageLinks          `json:"links"`
}

type customerEnvelope struct {
	Data customerResource `json:"data"`
}

type subscriptionAttributes struct {
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	CancelDate string `json:"cancel_date"`
}

type subscriptionResource struct {
	ID            string                 `json:"id"`
	Attributes    subscriptionAttributes `json:"attributes"`
	Relationships struct {
		Plan relationshipOne `json:"subscription-plan"`
	} `json:"relationships"`
}

type subscriptionEnvelope struct {
	Data subscriptionResource `json:"data"`
}

type planEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
}

// cancelRequest is the PATCH body for a subscription cancellation.
type cancelRequest struct {
	Data cancelRequestData `json:"data"`
}

type cancelRequestData struct {
	Type       string                  `json:"type"`
	ID         string                  `json:"id"`
	Attributes cancelRequestAttributes `json:"attributes"`
}

type cancelRequestAttributes struct {
	CancelDate string `json:"cancel_date"`
}

func (r customerResource) toDomain() *customer.Customer {
	return &customer.Customer{
		ID:        r.ID,
		Email:     r.Attributes.Email,
		FirstName: r.Attributes.FirstName,
		LastName:  r.Attributes.LastName,
		SubscriptionIDs: lo.Map(r.Relationships.Subscriptions.Data,
			func(ref resourceRef, _ int) string { return ref.ID }),
	}
}

func (r subscriptionResource) toDomain() (*subscription.Subscription, error) {
	if r.ID == "" {
		return nil, ierr.NewError("provider response has no subscription data").
			WithHint("Subscription not found").
			Mark(ierr.ErrNotFound)
	}

	startDate, err := parseProviderTime(r.Attributes.StartDate)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable subscription start date").
			WithReportableDetails(map[string]any{"subscription_id": r.ID}).
			Mark(ierr.ErrValidation)
	}

	sub := &subscription.Subscription{
		ID:        r.ID,
		Status:    types.SubscriptionStatus(r.Attributes.Status),
		StartDate: startDate,
		PlanID:    r.Relationships.Plan.Data.ID,
	}

	if r.Attributes.CancelDate != "" {
		cancelDate, err := parseProviderTime(r.Attributes.CancelDate)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Provider returned an unreadable cancel date").
				WithReportableDetails(map[string]any{"subscription_id": r.ID}).
				Mark(ierr.ErrValidation)
		}
		sub.CancelDate = &cancelDate
	}

	return sub, nil
}

func (e planEnvelope) toDomain() (*plan.Plan, error) {
	if e.Data.ID == "" || e.Data.Attributes.Name == "" {
		return nil, ierr.NewError("provider response has no plan data").
			WithHint("Subscription plan not found").
			Mark(ierr.ErrNotFound)
	}
	return &plan.Plan{
		ID:   e.Data.ID,
		Name: e.Data.Attributes.Name,
	}, nil
}

// providerTimeLayouts covers RFC3339 and the ISO-8601 variant without a
// colon in the zone offset that the provider also emits.
var providerTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

func parseProviderTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range providerTimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
