package v1

import (
	"errors"
	"fmt"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listSquads handles retrieving all squads
func (api *API) listSquads(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	squads, err := api.service.ListSquads(ctx)
	if err != nil {
		api.logger.Error("Failed to list squads", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(squads)
}

// createSquad handles creating a squad
func (api *API) createSquad(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var squad types.Squad
	if err := c.ShouldBindJSON(&squad); err != nil {
		resp.BadRequest(fmt.Errorf("invalid squad format: %v", err))
		return
	}

	created, err := api.service.CreateSquad(ctx, &squad)
	if err != nil {
		api.logger.Error("Failed to create squad",
			zap.Error(err),
			zap.String("name", squad.Name))
		api.respondError(resp, err)
		return
	}

	resp.Created(created)
}

// getSquad handles retrieving a single squad
func (api *API) getSquad(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	squad, err := api.service.GetSquad(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrSquadNotFound) {
			api.logger.Error("Failed to get squad",
				zap.Error(err),
				zap.String("squad_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(squad)
}

// updateSquad handles updating a squad
func (api *API) updateSquad(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var squad types.Squad
	if err := c.ShouldBindJSON(&squad); err != nil {
		resp.BadRequest(fmt.Errorf("invalid squad format: %v", err))
		return
	}

	id := c.Param("id")
	updated, err := api.service.UpdateSquad(ctx, id, &squad)
	if err != nil {
		if !errors.Is(err, types.ErrSquadNotFound) {
			api.logger.Error("Failed to update squad",
				zap.Error(err),
				zap.String("squad_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(updated)
}

// deleteSquad handles deleting a squad
func (api *API) deleteSquad(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := api.service.DeleteSquad(ctx, id); err != nil {
		if !errors.Is(err, types.ErrSquadNotFound) {
			api.logger.Error("Failed to delete squad",
				zap.Error(err),
				zap.String("squad_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}

// listProfessionals handles retrieving all professionals
func (api *API) listProfessionals(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	professionals, err := api.service.ListProfessionals(ctx)
	if err != nil {
		api.logger.Error("Failed to list professionals", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(professionals)
}

// createProfessional handles creating a professional
func (api *API) createProfessional(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var p types.Professional
	if err := c.ShouldBindJSON(&p); err != nil {
		resp.BadRequest(fmt.Errorf("invalid professional format: %v", err))
		return
	}

	created, err := api.service.CreateProfessional(ctx, &p)
	if err != nil {
		api.logger.Error("Failed to create professional",
			zap.Error(err),
			zap.String("name", p.Name))
		api.respondError(resp, err)
		return
	}

	resp.Created(created)
}

// getProfessional handles retrieving a single professional
func (api *API) getProfessional(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	p, err := api.service.GetProfessional(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrProfessionalNotFound) {
			api.logger.Error("Failed to get professional",
				zap.Error(err),
				zap.String("professional_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(p)
}

// updateProfessional handles updating a professional
func (api *API) updateProfessional(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var p types.Professional
	if err := c.ShouldBindJSON(&p); err != nil {
		resp.BadRequest(fmt.Errorf("invalid professional format: %v", err))
		return
	}

	id := c.Param("id")
	updated, err := api.service.UpdateProfessional(ctx, id, &p)
	if err != nil {
		if !errors.Is(err, types.ErrProfessionalNotFound) {
			api.logger.Error("Failed to update professional",
				zap.Error(err),
				zap.String("professional_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(updated)
}

// deleteProfessional handles deleting a professional
func (api *API) deleteProfessional(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := api.service.DeleteProfessional(ctx, id); err != nil {
		if !errors.Is(err, types.ErrProfessionalNotFound) {
			api.logger.Error("Failed to delete professional",
				zap.Error(err),
				zap.String("professional_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}

// listJobRoles handles retrieving all job roles
func (api *API) listJobRoles(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	roles, err := api.service.ListJobRoles(ctx)
	if err != nil {
		api.logger.Error("Failed to list job roles", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(roles)
}

// createJobRole handles creating a job role
func (api *API) createJobRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var role types.JobRole
	if err := c.ShouldBindJSON(&role); err != nil {
		resp.BadRequest(fmt.Errorf("invalid job role format: %v", err))
		return
	}

	created, err := api.service.CreateJobRole(ctx, &role)
	if err != nil {
		api.logger.Error("Failed to create job role",
			zap.Error(err),
			zap.String("title", role.Title))
		api.respondError(resp, err)
		return
	}

	resp.Created(created)
}

// getJobRole handles retrieving a single job role
func (api *API) getJobRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	role, err := api.service.GetJobRole(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrJobRoleNotFound) {
			api.logger.Error("Failed to get job role",
				zap.Error(err),
				zap.String("job_role_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(role)
}

// updateJobRole handles updating a job role
func (api *API) updateJobRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var role types.JobRole
	if err := c.ShouldBindJSON(&role); err != nil {
		resp.BadRequest(fmt.Errorf("invalid job role format: %v", err))
		return
	}

	id := c.Param("id")
	updated, err := api.service.UpdateJobRole(ctx, id, &role)
	if err != nil {
		if !errors.Is(err, types.ErrJobRoleNotFound) {
			api.logger.Error("Failed to update job role",
				zap.Error(err),
				zap.String("job_role_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(updated)
}

// deleteJobRole handles deleting a job role
func (api *API) deleteJobRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := api.service.DeleteJobRole(ctx, id); err != nil {
		if !errors.Is(err, types.ErrJobRoleNotFound) {
			api.logger.Error("Failed to delete job role",
				zap.Error(err),
				zap.String("job_role_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}
