package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/requests"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/responses"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

// RegisterAuthRoutes registers the authentication routes. Login and recover
// are public; password and profile changes require the auth middleware.
func RegisterAuthRoutes(router *gin.RouterGroup, handler *handlers.AuthHandler, authMiddleware gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.POST("/login", login(handler))
	auth.POST("/recover", recoverPassword(handler))

	protected := auth.Group("")
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}
	protected.POST("/logout", logout(handler))
	protected.PUT("/password", updatePassword(handler))
	protected.PUT("/profile", updateProfile(handler))
	protected.GET("/session", currentSession(handler))
}

func login(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid login payload")
			return
		}

		sess, err := handler.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			responses.HandleError(c, err, "login failed")
			return
		}
		c.JSON(http.StatusOK, responses.NewSessionResponse(sess))
	}
}

func logout(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.Logout(c.Request.Context()); err != nil {
			responses.HandleError(c, err, "logout failed")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func recoverPassword(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.RecoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid recover payload")
			return
		}

		if err := handler.Recover(c.Request.Context(), req.Email); err != nil {
			responses.HandleError(c, err, "recovery request failed")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updatePassword(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid password payload")
			return
		}

		if err := handler.UpdatePassword(c.Request.Context(), req.Password); err != nil {
			responses.HandleError(c, err, "password update failed")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateProfile(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid profile payload")
			return
		}

		profile, err := handler.UpdateProfile(c.Request.Context(), map[string]any{"nome": req.Name})
		if err != nil {
			responses.HandleError(c, err, "profile update failed")
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func currentSession(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := handler.Current()
		if sess == nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "no active session")
			return
		}
		c.JSON(http.StatusOK, responses.NewSessionResponse(sess))
	}
}
