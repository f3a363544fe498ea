package v1

import (
	"errors"
	"fmt"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getOverview handles the aggregated dashboard overview
func (api *API) getOverview(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	month := c.Query("month")
	squadID := c.Query("squad_id")

	overview, err := api.service.GetOverview(ctx, month, squadID)
	if err != nil {
		if !errors.Is(err, types.ErrInvalidPeriodFormat) {
			api.logger.Error("Failed to build overview",
				zap.Error(err),
				zap.String("month", month),
				zap.String("squad_id", squadID))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(overview)
}

// getDashboardData handles loading the dashboard configuration document
func (api *API) getDashboardData(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	// Load never fails; missing or unreachable stores degrade to the
	// embedded default document
	data, err := api.service.GetDashboardData(ctx)
	if err != nil {
		api.logger.Error("Failed to load dashboard data", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(data)
}

// saveDashboardData handles persisting the dashboard configuration
func (api *API) saveDashboardData(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var data types.DashboardData
	if err := c.ShouldBindJSON(&data); err != nil {
		resp.BadRequest(fmt.Errorf("invalid dashboard data format: %v", err))
		return
	}

	if err := api.service.SaveDashboardData(ctx, &data); err != nil {
		api.logger.Error("Failed to save dashboard data", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "saved"})
}
