package plan

// Plan is the pricing/product definition a subscription refers to.
type Plan struct {
	// ID is the provider-assigned plan identifier
	ID string `json:"id"`

	// Name is the display name of the plan
	Name string `json:"name"`
}
