package customer

// Customer is an immutable snapshot of a provider-side billing entity,
// flattened from one entry of the provider's customer listing. The listing
// carries only subscription link references, never subscription status, so
// status always requires a per-subscription fetch.
type Customer struct {
	// ID is the provider-assigned customer identifier
	ID string `json:"id"`

	// Email is the customer's email, used for local user matching
	Email string `json:"email"`

	// FirstName is the customer's first name
	FirstName string `json:"first_name"`

	// LastName is the customer's last name
	LastName string `json:"last_name"`

	// SubscriptionIDs are the subscription references linked to the
	// customer, in the provider's relationship order. May be empty.
	SubscriptionIDs []string `json:"subscription_ids"`
}

// HasSubscriptions reports whether the customer links to at least one
// subscription reference.
func (c *Customer) HasSubscriptions() bool {
	return len(c.SubscriptionIDs) > 0
}
