// Package v1 wires the panel API's versioned routes.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register registers all v1 routes on the engine. The auth routes stay
// public; everything else goes behind authMiddleware when provided.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	v1 := engine.Group("/v1")

	RegisterAuthRoutes(v1, r.handlers.Auth, authMiddleware)

	protected := v1.Group("")
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}
	RegisterConversationRoutes(protected, r.handlers.Conversations)
	RegisterUserRoutes(protected, r.handlers.Users)
	RegisterDashboardRoutes(protected, r.handlers.Dashboard)
}
