package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/server/service"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// API represents the API
type API struct {
	service *service.Service
	logger  *zap.Logger
}

// NewAPI creates new API
func NewAPI(svc *service.Service, logger *zap.Logger) *API {
	return &API{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes registers API routes. manageGuard gates content
// mutations, adminGuard gates user administration; either may be nil.
func (api *API) RegisterRoutes(r *gin.RouterGroup, manageGuard, adminGuard gin.HandlerFunc) {
	chain := func(guard, h gin.HandlerFunc) []gin.HandlerFunc {
		if guard == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{guard, h}
	}
	manage := func(h gin.HandlerFunc) []gin.HandlerFunc { return chain(manageGuard, h) }
	admin := func(h gin.HandlerFunc) []gin.HandlerFunc { return chain(adminGuard, h) }

	// Indicator endpoints
	indicators := r.Group("/indicators")
	{
		indicators.GET("", api.listIndicators)
		indicators.POST("", manage(api.createIndicator)...)
		indicators.GET("/:id", api.getIndicator)
		indicators.PUT("/:id", manage(api.updateIndicator)...)
		indicators.DELETE("/:id", manage(api.deleteIndicator)...)
		indicators.PUT("/:id/active", manage(api.toggleIndicator)...)
	}

	// Indicator value endpoints
	values := r.Group("/values")
	{
		values.GET("", api.listValues)
		values.POST("", manage(api.createValue)...)
		values.GET("/:id", api.getValue)
		values.PUT("/:id", manage(api.updateValue)...)
		values.DELETE("/:id", manage(api.deleteValue)...)
	}

	// Bulk import endpoints
	imports := r.Group("/import")
	{
		imports.POST("/values", manage(api.importValues)...)
		imports.GET("/template", api.importTemplate)
		imports.GET("/batches", api.listImportBatches)
		imports.GET("/batches/:id", api.getImportBatch)
	}

	// Dashboard endpoints
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/overview", api.getOverview)
		dashboard.GET("/data", api.getDashboardData)
		dashboard.PUT("/data", manage(api.saveDashboardData)...)
	}

	// Organization endpoints
	squads := r.Group("/squads")
	{
		squads.GET("", api.listSquads)
		squads.POST("", api.createSquad)
		squads.GET("/:id", api.getSquad)
		squads.PUT("/:id", api.updateSquad)
		squads.DELETE("/:id", api.deleteSquad)
	}

	professionals := r.Group("/professionals")
	{
		professionals.GET("", api.listProfessionals)
		professionals.POST("", api.createProfessional)
		professionals.GET("/:id", api.getProfessional)
		professionals.PUT("/:id", api.updateProfessional)
		professionals.DELETE("/:id", api.deleteProfessional)
	}

	jobRoles := r.Group("/job-roles")
	{
		jobRoles.GET("", api.listJobRoles)
		jobRoles.POST("", api.createJobRole)
		jobRoles.GET("/:id", api.getJobRole)
		jobRoles.PUT("/:id", api.updateJobRole)
		jobRoles.DELETE("/:id", api.deleteJobRole)
	}

	// User endpoints
	users := r.Group("/users")
	{
		users.GET("", api.listUsers)
		users.POST("", admin(api.createUser)...)
		users.GET("/:id", api.getUser)
		users.DELETE("/:id", admin(api.deleteUser)...)
		users.GET("/:id/roles", api.listUserRoles)
		users.POST("/:id/roles", admin(api.assignUserRole)...)
		users.DELETE("/:id/roles/:role", admin(api.removeUserRole)...)
	}

	// Health check
	r.GET("/health", api.healthCheck)
}

// requestContext derives the standard per-request timeout context
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 30*time.Second)
}

// respondError maps service errors to HTTP status codes. A canceled
// client gets no response at all.
func (api *API) respondError(resp *response.Handler, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, context.DeadlineExceeded):
		resp.Error(http.StatusGatewayTimeout, errors.New("request timeout"))
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrInvalidPeriodFormat):
		resp.BadRequest(err)
	case errors.Is(err, types.ErrIndicatorNotFound),
		errors.Is(err, types.ErrValueNotFound),
		errors.Is(err, types.ErrSquadNotFound),
		errors.Is(err, types.ErrProfessionalNotFound),
		errors.Is(err, types.ErrJobRoleNotFound),
		errors.Is(err, types.ErrUserNotFound),
		errors.Is(err, types.ErrBatchNotFound):
		resp.NotFound(err)
	case errors.Is(err, types.ErrPersistence):
		resp.Error(http.StatusBadGateway, err)
	default:
		resp.InternalError(errors.New("internal server error"))
	}
}

// healthCheck handles health check requests
func (api *API) healthCheck(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := api.service.HealthCheck(ctx)
	if !status.Healthy {
		resp.Error(http.StatusServiceUnavailable, errors.New("service unhealthy"))
		return
	}

	resp.Success(status)
}
