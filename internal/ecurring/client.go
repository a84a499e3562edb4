package ecurring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nsukonny/ecurring-sync/internal/config"
	"github.com/nsukonny/ecurring-sync/internal/domain/customer"
	"github.com/nsukonny/ecurring-sync/internal/domain/plan"
	"github.com/nsukonny/ecurring-sync/internal/domain/subscription"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/httpclient"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/samber/lo"
)

const (
	acceptMediaTypes   = "application/json, application/vnd.api+json"
	jsonAPIContentType = "application/vnd.api+json"
	resourceTypeSub    = "subscription"
)

// Client defines the provider API operations the reconciler needs.
// All reads are GETs against the JSON:API endpoints; the only write is the
// subscription cancellation PATCH.
type Client interface {
	// ListCustomers fetches one page of the customer directory and reports
	// whether the provider advertises a further page.
	ListCustomers(ctx context.Context, page int) (*CustomerPage, error)
	GetCustomer(ctx context.Context, id string) (*customer.Customer, error)
	GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error)
	GetPlan(ctx context.Context, id string) (*plan.Plan, error)
	// CancelSubscription patches the subscription's cancel_date and returns
	// the provider's view of the subscription afterwards.
	CancelSubscription(ctx context.Context, id string, cancelDate time.Time) (*subscription.Subscription, error)
}

// CustomerPage is one page of the provider customer directory.
type CustomerPage struct {
	Customers []*customer.Customer
	HasNext   bool
}

type client struct {
	cfg        config.EcurringConfig
	httpClient httpclient.Client
	logger     *logger.Logger
}

// NewClient creates a provider client using the injected credentials.
func NewClient(cfg *config.Configuration, log *logger.Logger) Client {
	return &client{
		cfg:        cfg.Ecurring,
		httpClient: httpclient.NewClientWithTimeout(cfg.Ecurring.Timeout),
		logger:     log,
	}
}

func (c *client) ListCustomers(ctx context.Context, page int) (*CustomerPage, error) {
	query := url.Values{}
	query.Set("page[number]", fmt.Sprintf("%d", page))
	query.Set("page[size]", fmt.Sprintf("%d", c.cfg.PageSize))

	body, err := c.get(ctx, fmt.Sprintf("/customers?%s", query.Encode()))
	if err != nil {
		return nil, err
	}

	var envelope customerListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable customer listing").
			Mark(ierr.ErrValidation)
	}

	return &CustomerPage{
		Customers: lo.Map(envelope.Data, func(r customerResource, _ int) *customer.Customer {
			return r.toDomain()
		}),
		HasNext: envelope.Links.Next != "",
	}, nil
}

func (c *client) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	body, err := c.get(ctx, fmt.Sprintf("/customers/%s", id))
	if err != nil {
		return nil, err
	}

	var envelope customerEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable customer").
			Mark(ierr.ErrValidation)
	}

	if envelope.Data.ID == "" {
		return nil, ierr.NewError("provider response has no customer data").
			WithHint("Customer not found").
			WithReportableDetails(map[string]any{"customer_id": id}).
			Mark(ierr.ErrNotFound)
	}

	return envelope.Data.toDomain(), nil
}

func (c *client) GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error) {
	body, err := c.get(ctx, fmt.Sprintf("/subscriptions/%s", id))
	if err != nil {
		return nil, err
	}

	var envelope subscriptionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable subscription").
			Mark(ierr.ErrValidation)
	}

	return envelope.Data.toDomain()
}

func (c *client) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	body, err := c.get(ctx, fmt.Sprintf("/subscription-plans/%s", id))
	if err != nil {
		return nil, err
	}

	var envelope planEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable subscription plan").
			Mark(ierr.ErrValidation)
	}

	return envelope.toDomain()
}

func (c *client) CancelSubscription(ctx context.Context, id string, cancelDate time.Time) (*subscription.Subscription, error) {
	reqBody, err := json.Marshal(cancelRequest{
		Data: cancelRequestData{
			Type: resourceTypeSub,
			ID:   id,
			Attributes: cancelRequestAttributes{
				CancelDate: cancelDate.Format(time.RFC3339),
			},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build cancellation request").
			Mark(ierr.ErrSystem)
	}

	req := &httpclient.Request{
		Method: http.MethodPatch,
		URL:    c.cfg.BaseURL + fmt.Sprintf("/subscriptions/%s", id),
		Headers: map[string]string{
			"Accept":          acceptMediaTypes,
			"Content-Type":    jsonAPIContentType,
			"X-Authorization": c.cfg.APIKey,
		},
		Body: reqBody,
	}

	resp, err := c.httpClient.Send(ctx, req)
	if err != nil {
		return nil, c.requestError(err, "failed to cancel subscription", map[string]any{
			"subscription_id": id,
		})
	}

	var envelope subscriptionEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned an unreadable cancellation response").
			Mark(ierr.ErrValidation)
	}

	return envelope.Data.toDomain()
}

// get issues an authenticated GET against the provider and returns the raw
// response body.
func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	req := &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + path,
		Headers: map[string]string{
			"Accept":          acceptMediaTypes,
			"X-Authorization": c.cfg.APIKey,
		},
	}

	resp, err := c.httpClient.Send(ctx, req)
	if err != nil {
		return nil, c.requestError(err, "provider request failed", map[string]any{
			"path": path,
		})
	}

	return resp.Body, nil
}

func (c *client) requestError(err error, msg string, details map[string]any) error {
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		c.logger.Errorw("ecurring api error",
			"status", httpErr.StatusCode,
			"body", string(httpErr.Response),
			"details", details)

		if httpErr.StatusCode == http.StatusNotFound {
			return ierr.WithError(err).
				WithHint("Provider resource not found").
				WithReportableDetails(details).
				Mark(ierr.ErrNotFound)
		}

		return ierr.WithError(err).
			WithHintf("Provider API returned status %d", httpErr.StatusCode).
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Errorw("ecurring request failed",
		"error", err,
		"details", details)
	return ierr.WithError(err).
		WithHint(msg).
		WithReportableDetails(details).
		Mark(ierr.ErrHTTPClient)
}
