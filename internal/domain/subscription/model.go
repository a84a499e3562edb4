package subscription

import (
	"time"

	"github.com/nsukonny/ecurring-sync/internal/types"
)

// Subscription is a provider-side recurring billing record, fetched per-id
// on demand. Nothing is cached across fetches; a fresh fetch is the only
// authoritative source for Status.
type Subscription struct {
	// ID is the provider-assigned subscription identifier
	ID string `json:"id"`

	// Status is the provider-side subscription status
	Status types.SubscriptionStatus `json:"status"`

	// StartDate is when the subscription started
	StartDate time.Time `json:"start_date"`

	// CancelDate is the effective cancellation date, absent while the
	// subscription is not cancelled
	CancelDate *time.Time `json:"cancel_date,omitempty"`

	// PlanID references the subscription's pricing plan
	PlanID string `json:"plan_id"`
}

// IsActive reports whether the subscription status is active.
func (s *Subscription) IsActive() bool {
	return s.Status == types.SubscriptionStatusActive
}

// View is the flat projection of a subscription joined with its plan,
// returned to callers for display. Derived, never stored.
type View struct {
	SubscriptionID string    `json:"subscription_id"`
	PlanName       string    `json:"plan_name"`
	StartDate      time.Time `json:"start_date"`
}
