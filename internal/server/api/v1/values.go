package v1

import (
	"errors"
	"fmt"

	"wkmetrics/internal/kpi"
	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listValues handles retrieving indicator values
func (api *API) listValues(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var query struct {
		types.ValueFilter
		Month string `form:"month"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		resp.BadRequest(fmt.Errorf("invalid query parameters: %v", err))
		return
	}

	// A month token expands to the period bounds of that month
	if query.Month != "" {
		period, err := kpi.ResolveMonth(query.Month)
		if err != nil {
			resp.BadRequest(err)
			return
		}
		query.PeriodStartMin = period.Start
		query.PeriodEndMax = period.End
	}

	values, err := api.service.ListValues(ctx, query.ValueFilter)
	if err != nil {
		api.logger.Error("Failed to list values", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(values)
}

// createValue handles recording an indicator value
func (api *API) createValue(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var form types.IndicatorValueFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		resp.BadRequest(fmt.Errorf("invalid value format: %v", err))
		return
	}

	value, err := api.service.CreateValue(ctx, &form, c.GetString("user_id"))
	if err != nil {
		api.logger.Error("Failed to create value",
			zap.Error(err),
			zap.String("indicator_id", form.IndicatorID))
		api.respondError(resp, err)
		return
	}

	resp.Created(value)
}

// getValue handles retrieving a single indicator value
func (api *API) getValue(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("value id is required"))
		return
	}

	value, err := api.service.GetValue(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrValueNotFound) {
			api.logger.Error("Failed to get value",
				zap.Error(err),
				zap.String("value_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(value)
}

// updateValue handles updating an indicator value in place
func (api *API) updateValue(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("value id is required"))
		return
	}

	var form types.IndicatorValueFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		resp.BadRequest(fmt.Errorf("invalid value format: %v", err))
		return
	}

	value, err := api.service.UpdateValue(ctx, id, &form)
	if err != nil {
		if !errors.Is(err, types.ErrValueNotFound) {
			api.logger.Error("Failed to update value",
				zap.Error(err),
				zap.String("value_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(value)
}

// deleteValue handles deleting an indicator value
func (api *API) deleteValue(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("value id is required"))
		return
	}

	if err := api.service.DeleteValue(ctx, id); err != nil {
		if !errors.Is(err, types.ErrValueNotFound) {
			api.logger.Error("Failed to delete value",
				zap.Error(err),
				zap.String("value_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}
