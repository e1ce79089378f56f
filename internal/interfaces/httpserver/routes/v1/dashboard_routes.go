package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/responses"
)

// RegisterDashboardRoutes registers the dashboard metric routes.
func RegisterDashboardRoutes(router gin.IRoutes, handler *handlers.DashboardHandler) {
	router.GET("/dashboard/metrics", getMetrics(handler))
}

func getMetrics(handler *handlers.DashboardHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := handler.Metrics(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to fetch dashboard metrics")
			return
		}
		c.JSON(http.StatusOK, responses.MetricsResponse{Metrics: metrics})
	}
}
