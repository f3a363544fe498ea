package v1

import (
	"errors"
	"fmt"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listUsers handles retrieving all users with their roles
func (api *API) listUsers(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := api.service.ListUsers(ctx)
	if err != nil {
		api.logger.Error("Failed to list users", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(users)
}

// createUser handles creating a user
func (api *API) createUser(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	var user types.User
	if err := c.ShouldBindJSON(&user); err != nil {
		resp.BadRequest(fmt.Errorf("invalid user format: %v", err))
		return
	}

	created, err := api.service.CreateUser(ctx, &user)
	if err != nil {
		api.logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email))
		api.respondError(resp, err)
		return
	}

	resp.Created(created)
}

// getUser handles retrieving a single user with roles
func (api *API) getUser(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	user, err := api.service.GetUser(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			api.logger.Error("Failed to get user",
				zap.Error(err),
				zap.String("user_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(user)
}

// deleteUser handles deleting a user and their role assignments
func (api *API) deleteUser(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := api.service.DeleteUser(ctx, id); err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			api.logger.Error("Failed to delete user",
				zap.Error(err),
				zap.String("user_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"status": "deleted"})
}

// listUserRoles handles retrieving the roles assigned to a user
func (api *API) listUserRoles(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	user, err := api.service.GetUser(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			api.logger.Error("Failed to get user roles",
				zap.Error(err),
				zap.String("user_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"user_id": id, "roles": user.Roles})
}

// assignUserRole handles granting a role to a user
func (api *API) assignUserRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(errors.New("role is required"))
		return
	}

	if err := api.service.AssignRole(ctx, id, body.Role); err != nil {
		if !errors.Is(err, types.ErrUserNotFound) && !errors.Is(err, types.ErrValidation) {
			api.logger.Error("Failed to assign role",
				zap.Error(err),
				zap.String("user_id", id),
				zap.String("role", body.Role))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"user_id": id, "role": body.Role})
}

// removeUserRole handles revoking a role from a user
func (api *API) removeUserRole(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	role := c.Param("role")

	if err := api.service.RemoveRole(ctx, id, role); err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			api.logger.Error("Failed to remove role",
				zap.Error(err),
				zap.String("user_id", id),
				zap.String("role", role))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(gin.H{"user_id": id, "role": role})
}
