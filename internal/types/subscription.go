package types

// SubscriptionStatus is the provider-side status of a subscription.
// The provider defines more statuses than we act on; only a fresh
// per-subscription fetch is authoritative for this value.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CancellationOutcome is the terminal state of a cancellation workflow run,
// returned to the caller instead of terminating the request in place.
type CancellationOutcome string

const (
	// CancellationOutcomeCancelled means the provider confirmed the
	// cancellation and local metadata was updated.
	CancellationOutcomeCancelled CancellationOutcome = "cancelled"
	// CancellationOutcomeNoCustomer means the caller is not a provider
	// customer; nothing to cancel.
	CancellationOutcomeNoCustomer CancellationOutcome = "no_customer"
	// CancellationOutcomeNoSubscription means the customer has no
	// subscriptions; nothing to cancel.
	CancellationOutcomeNoSubscription CancellationOutcome = "no_subscription"
	// CancellationOutcomeNotConfirmed means the provider accepted the
	// request but did not report a cancelled status; local state is
	// left untouched.
	CancellationOutcomeNotConfirmed CancellationOutcome = "not_confirmed"
)

func (o CancellationOutcome) String() string {
	return string(o)
}
