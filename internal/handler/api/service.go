package api

import (
	"errors"
	"net/http"

	resdto "waitdesk/internal/handler/dto/response"
	"waitdesk/internal/handler/httperr"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	availability queries.AvailabilityQueries
	clk          clock.Clock
}

func NewServiceHandler(availability queries.AvailabilityQueries, clk clock.Clock) *ServiceHandler {
	return &ServiceHandler{
		availability: availability,
		clk:          clk,
	}
}

// @Summary Day availability
// @Description Slot grid for a service on a date; closed days yield an empty grid
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /services/{id}/availability [get]
func (h *ServiceHandler) Availability(c *gin.Context) {
	serviceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	view, err := h.availability.DaySlots(c.Request.Context(), serviceID, date, h.clk.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || errors.Is(err, errs.ErrServiceNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Service not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDayAvailability(view))
}
