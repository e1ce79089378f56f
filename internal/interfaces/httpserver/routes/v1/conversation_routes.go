package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/infrastructure/auth"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/requests"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/responses"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

// RegisterConversationRoutes registers the conversation and message routes.
func RegisterConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler) {
	router.GET("/conversations", listConversations(handler))
	router.GET("/conversations/:id/messages", listMessages(handler))
	router.POST("/conversations/:id/messages", sendMessage(handler))
	router.PATCH("/conversations/:id/status", updateStatus(handler))
}

func listConversations(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := conversation.ParseCategory(c.Query("category"))
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
			return
		}

		list, counts, err := handler.List(c.Request.Context(), category, c.Query("search"))
		if err != nil {
			responses.HandleError(c, err, "failed to list conversations")
			return
		}
		c.JSON(http.StatusOK, responses.NewConversationListResponse(list, counts))
	}
}

func listMessages(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := handler.Messages(c.Request.Context(), c.Param("id"))
		if err != nil {
			responses.HandleError(c, err, "failed to list messages")
			return
		}
		c.JSON(http.StatusOK, responses.MessageListResponse{Messages: msgs})
	}
}

func sendMessage(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid message payload")
			return
		}

		err := handler.Send(c.Request.Context(), c.Param("id"), req.Text, c.GetString(auth.SubjectKey))
		if err != nil {
			responses.HandleError(c, err, "failed to send message")
			return
		}
		c.JSON(http.StatusAccepted, responses.SentResponse{Delivered: true})
	}
}

func updateStatus(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid status payload")
			return
		}

		status, err := handler.UpdateStatus(c.Request.Context(), c.Param("id"), conversation.ParseStatus(req.Status))
		if err != nil {
			responses.HandleError(c, err, "failed to update status")
			return
		}
		c.JSON(http.StatusOK, responses.StatusResponse{ID: c.Param("id"), Status: status})
	}
}
