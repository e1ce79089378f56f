package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatimovel/painel-server/internal/domain/user"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/requests"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/responses"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

// RegisterUserRoutes registers the user management routes.
func RegisterUserRoutes(router gin.IRoutes, handler *handlers.UserHandler) {
	router.GET("/users", listUsers(handler))
	router.POST("/users", createUser(handler))
	router.POST("/users/platform", createPlatformUser(handler))
	router.PATCH("/users/:id", updateUser(handler))
	router.DELETE("/users/:id", deleteUser(handler))
	router.POST("/users/:id/toggle", toggleActive(handler))
}

func listUsers(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := user.ListOptions{
			Type:       c.Query("type"),
			Search:     c.Query("search"),
			Sort:       c.Query("sort"),
			Descending: c.Query("order") == "desc",
		}
		users, err := handler.List(c.Request.Context(), opts)
		if err != nil {
			responses.HandleError(c, err, "failed to list users")
			return
		}
		c.JSON(http.StatusOK, responses.NewUserListResponse(users))
	}
}

func createUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid user payload")
			return
		}

		created, err := handler.Create(c.Request.Context(), user.CreateInput{Name: req.Name, Phone: req.Phone})
		if err != nil {
			responses.HandleError(c, err, "failed to create user")
			return
		}
		c.JSON(http.StatusCreated, responses.NewUserResponse(*created))
	}
}

func updateUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid user payload")
			return
		}

		err := handler.Update(c.Request.Context(), c.Param("id"), user.UpdateInput{Name: req.Name, Phone: req.Phone})
		if err != nil {
			responses.HandleError(c, err, "failed to update user")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
			responses.HandleError(c, err, "failed to delete user")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func toggleActive(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.ToggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid toggle payload")
			return
		}

		if err := handler.ToggleActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
			responses.HandleError(c, err, "failed to toggle user")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createPlatformUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreatePlatformUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid platform user payload")
			return
		}

		created, err := handler.CreatePlatform(c.Request.Context(), user.CreatePlatformInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			responses.HandleError(c, err, "failed to create platform user")
			return
		}
		c.JSON(http.StatusCreated, responses.NewUserResponse(*created))
	}
}
