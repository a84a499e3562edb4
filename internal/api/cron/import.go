package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/service"
)

// ImportHandler exposes the customer import workflow to an external
// scheduler.
type ImportHandler struct {
	importService service.ImportService
	logger        *logger.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	importService service.ImportService,
	logger *logger.Logger,
) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

func (h *ImportHandler) ImportActiveCustomers(c *gin.Context) {
	h.logger.Infow("starting customer import cron job")

	summary, err := h.importService.ImportActiveCustomers(c.Request.Context())
	if err != nil {
		h.logger.Errorw("customer import failed",
			"error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
