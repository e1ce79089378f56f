package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/session"
	"github.com/chatimovel/painel-server/internal/domain/user"
	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

// HandleError maps domain and gateway errors to HTTP responses.
func HandleError(c *gin.Context, err error, fallback string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	switch {
	case errors.Is(err, conversation.ErrNotFound), errors.Is(err, user.ErrNotFound):
		platformerrors.WriteNotFound(c, fallback)
		return
	case errors.Is(err, conversation.ErrInvalidStatus), errors.Is(err, message.ErrEmptyMessage),
		errors.Is(err, message.ErrAgentActive):
		platformerrors.WriteValidationError(c, err.Error())
		return
	case errors.Is(err, session.ErrNotAuthenticated):
		platformerrors.WriteUnauthorized(c, err.Error())
		return
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			platformerrors.WriteUnauthorized(c, fallback)
		case http.StatusNotFound:
			platformerrors.WriteNotFound(c, fallback)
		default:
			platformerrors.WriteHTTPError(c,
				platformerrors.New(platformerrors.LayerGateway, platformerrors.ErrorTypeExternal, fallback, err),
				logger)
		}
		return
	}

	platformerrors.WriteError(c, err, logger)
}

// HandleNewError creates and writes a new typed error response.
// Use this for route-level errors like validation failures.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	status := platformerrors.ErrorTypeToHTTPStatus(errorType)
	c.JSON(status, ErrorResponse{
		Error: &ErrorDetail{
			Message: message,
			Type:    errorTypeToString(errorType),
		},
	})
}

func errorTypeToString(t platformerrors.ErrorType) string {
	switch t {
	case platformerrors.ErrorTypeNotFound:
		return "not_found_error"
	case platformerrors.ErrorTypeValidation:
		return "validation_error"
	case platformerrors.ErrorTypeConflict:
		return "conflict_error"
	case platformerrors.ErrorTypeUnauthorized:
		return "unauthorized_error"
	case platformerrors.ErrorTypeForbidden:
		return "forbidden_error"
	case platformerrors.ErrorTypeExternal:
		return "external_error"
	default:
		return "internal_error"
	}
}
