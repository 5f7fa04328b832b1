package api

import (
	"errors"
	"net/http"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/handler/httperr"
	"waitdesk/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "date must be YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return date, true
}

func abortTransitionError(c *gin.Context, err error, subject string) {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, subject+" not found", nil)
	case errors.Is(err, appointment.ErrInvalidTransition), errors.Is(err, queue.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, subject+" status does not allow this transition", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
