package dto

import (
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	"github.com/nsukonny/ecurring-sync/internal/types"
)

// ListSubscriptionsResponse carries the assembled subscription views of the
// acting user.
type ListSubscriptionsResponse struct {
	Items []*subscription.View `json:"items"`
	Total int                  `json:"total"`
}

// CancelSubscriptionResponse is the result of one cancellation workflow run.
// The caller decides what to do with the outcome (e.g. redirect on success).
type CancelSubscriptionResponse struct {
	Outcome             types.CancellationOutcome `json:"outcome"`
	SubscriptionID      string                    `json:"subscription_id,omitempty"`
	SubscriptionEndDate string                    `json:"subscription_end_date,omitempty"`
}

// Cancelled reports whether the provider confirmed the cancellation.
func (r *CancelSubscriptionResponse) Cancelled() bool {
	return r.Outcome == types.CancellationOutcomeCancelled
}
