package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsukonny/ecurring-sync/internal/api/dto"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/service"
)

type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
	cancellation  service.CancellationService
	logger        *logger.Logger
}

func NewSubscriptionHandler(
	subscriptions service.SubscriptionService,
	cancellation service.CancellationService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		cancellation:  cancellation,
		logger:        logger,
	}
}

// ListSubscriptions returns the acting user's assembled subscription views.
// A cancel_subscription query parameter runs the cancellation workflow
// instead; a confirmed cancellation redirects the browser home.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	if _, cancel := c.GetQuery("cancel_subscription"); cancel {
		resp, err := h.cancellation.Cancel(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}

		if resp.Cancelled() {
			c.Redirect(http.StatusFound, "/")
			return
		}

		c.JSON(http.StatusOK, resp)
		return
	}

	items, err := h.subscriptions.ListUserSubscriptions(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListSubscriptionsResponse{
		Items: items,
		Total: len(items),
	})
}

// CancelSubscription runs the cancellation workflow and returns its outcome
// to the caller, who decides what to do with it.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	resp, err := h.cancellation.Cancel(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
