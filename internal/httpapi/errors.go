package httpapi

import (
	"errors"
	"net/http"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		specErr  *pricing.SpecError
		inputErr *shop.InputError
	)
	switch {
	case errors.As(err, &specErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_specification", Field: specErr.Field, Message: specErr.Reason})
	case pricing.IsIncomplete(err):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "incomplete_dimensions", Message: pricing.ErrIncompleteDimensions.Error()})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_input", Field: inputErr.Field, Message: inputErr.Reason})
	case errors.Is(err, shop.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_input"})
	case errors.Is(err, shop.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
	case errors.Is(err, shop.ErrInvalidStatus):
		c.JSON(http.StatusConflict, errorResponse{Error: "invalid_status_transition", Message: err.Error()})
	case errors.Is(err, shop.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: "rate_limited"})
	case errors.Is(err, shop.ErrNoCatalog):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "catalog_unavailable"})
	default:
		_ = c.Error(err)
		s.logger.Error("Request handler failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
