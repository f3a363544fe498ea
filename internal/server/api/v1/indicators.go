package v1

import (
	"errors"
	"fmt"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listIndicators handles retrieving indicator definitions
func (api *API) listIndicators(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	activeOnly := c.Query("active") == "true"

	indicators, err := api.service.ListIndicators(ctx, activeOnly)
	if err != nil {
		api.logger.Error("Failed to list indicators", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(indicators)
}

// createIndicator handles creating an indicator definition
func (api *API) createIndicator(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var form types.IndicatorFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		resp.BadRequest(fmt.Errorf("invalid indicator format: %v", err))
		return
	}

	indicator, err := api.service.CreateIndicator(ctx, &form, c.GetString("user_id"))
	if err != nil {
		api.logger.Error("Failed to create indicator",
			zap.Error(err),
			zap.String("acronym", form.Acronym))
		api.respondError(resp, err)
		return
	}

	resp.Created(indicator)
}

// getIndicator handles retrieving a single indicator
func (api *API) getIndicator(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("indicator id is required"))
		return
	}

	indicator, err := api.service.GetIndicator(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrIndicatorNotFound) {
			api.logger.Error("Failed to get indicator",
				zap.Error(err),
				zap.String("indicator_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(indicator)
}

// updateIndicator handles updating an indicator definition
func (api *API) updateIndicator(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("indicator id is required"))
		return
	}

	var form types.IndicatorFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		resp.BadRequest(fmt.Errorf("invalid indicator format: %v", err))
		return
	}

	indicator, err := api.service.UpdateIndicator(ctx, id, &form, c.GetString("user_id"))
	if err != nil {
		if !errors.Is(err, types.ErrIndicatorNotFound) {
			api.logger.Error("Failed to update indicator",
				zap.Error(err),
				zap.String("indicator_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(indicator)
}

// toggleIndicator handles activating or deactivating an indicator
func (api *API) toggleIndicator(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("indicator id is required"))
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(errors.New("active is required"))
		return
	}

	if err := api.service.ToggleIndicator(ctx, id, *body.Active); err != nil {
		if !errors.Is(err, types.ErrIndicatorNotFound) {
			api.logger.Error("Failed to toggle indicator",
				zap.Error(err),
				zap.String("indicator_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"id": id, "active": *body.Active})
}

// deleteIndicator handles deleting an indicator and its values
func (api *API) deleteIndicator(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("indicator id is required"))
		return
	}

	if err := api.service.DeleteIndicator(ctx, id); err != nil {
		if !errors.Is(err, types.ErrIndicatorNotFound) {
			api.logger.Error("Failed to delete indicator",
				zap.Error(err),
				zap.String("indicator_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}
