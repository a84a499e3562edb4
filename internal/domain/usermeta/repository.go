package usermeta

import (
	"context"
)

// Meta field keys owned by this service.
const (
	// KeyCustomerID is the memoized provider customer id for a local user.
	// Once written it is treated as a durable cache: resolution reads it
	// before any directory scan.
	KeyCustomerID = "ecurring_customer_id"

	// KeySubscriptionEndDate is the confirmed cancellation date in display
	// format, written only after the provider confirms a cancellation.
	KeySubscriptionEndDate = "subscription_end_date"
)

// Repository defines the interface to the per-user metadata store, an
// external collaborator holding small key/value fields per local user.
type Repository interface {
	// Get returns the stored value for (userID, key), or "" when absent.
	// Absence is a normal outcome, not an error.
	Get(ctx context.Context, userID, key string) (string, error)
	// Set stores the value for (userID, key), overwriting any previous one.
	Set(ctx context.Context, userID, key, value string) error
}
