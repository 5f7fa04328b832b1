package api

import (
	"context"
	"errors"
	"net/http"

	"waitdesk/internal/domain/schedule"
	reqdto "waitdesk/internal/handler/dto/request"
	resdto "waitdesk/internal/handler/dto/response"
	"waitdesk/internal/handler/httperr"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/rules"
	"waitdesk/internal/usecase/commands"
	"waitdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	bookings commands.BookingCommands
	views    queries.AppointmentQueries
}

func NewAppointmentHandler(bookings commands.BookingCommands, views queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{
		bookings: bookings,
		views:    views,
	}
}

// ruleViolationStatus maps an admission verdict to an HTTP status: absent
// prerequisites are 404, contention over shared capacity is 409, requests
// the rules reject outright are 422.
func ruleViolationStatus(code string) int {
	switch code {
	case rules.CodeServiceNotFound:
		return http.StatusNotFound
	case rules.CodeDuplicateAppointment,
		rules.CodeTimeSlotUnavailable,
		rules.CodeDailyCapacityExceeded,
		rules.CodeAlreadyInQueue,
		rules.CodeQueueFull:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func abortRuleViolation(c *gin.Context, violation *commands.RuleViolationError) {
	httperr.AbortWithCode(c, ruleViolationStatus(violation.Code), violation, violation.Code, violation.Message, violation.Metadata)
}

// @Summary Book appointment
// @Description Book a time slot after running the admission rules
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body reqdto.CreateAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	id, err := h.bookings.Book(c.Request.Context(), input)
	if err != nil {
		var violation *commands.RuleViolationError
		switch {
		case errors.As(err, &violation):
			abortRuleViolation(c, violation)
		case errors.Is(err, schedule.ErrInvalidSlot):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "start_time does not leave room for the service duration", nil)
		case errors.Is(err, errs.ErrSlotLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Time slot is held by a pending booking", nil)
		case infra.IsKind(err, infra.KindConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Time slot was taken by a concurrent booking", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Get appointment
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 404 {object} httperr.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.views.Get(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Appointment not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary List appointments
// @Description List a day's appointments for a service, or a customer's history
// @Tags appointments
// @Produce json
// @Param service_id query string false "Service ID (with date)"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param customer_email query string false "Customer email"
// @Success 200 {array} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	if email := c.Query("customer_email"); email != "" {
		views, err := h.views.ListForCustomer(c.Request.Context(), email)
		if err != nil {
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
			return
		}
		c.JSON(http.StatusOK, resdto.FromAppointmentViews(views))
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "service_id or customer_email is required", nil)
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	views, err := h.views.ListForDay(c.Request.Context(), serviceID, date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentViews(views))
}

// @Summary Confirm appointment
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, h.bookings.Confirm)
}

// @Summary Start appointment
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/start [post]
func (h *AppointmentHandler) Start(c *gin.Context) {
	h.applyTransition(c, h.bookings.Start)
}

// @Summary Complete appointment
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.applyTransition(c, h.bookings.Complete)
}

// @Summary Mark appointment no-show
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/no-show [post]
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.bookings.MarkNoShow)
}

// @Summary Cancel appointment
// @Description Cancel keeps the record; cancelling twice is a no-op
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, h.bookings.Cancel)
}

func (h *AppointmentHandler) applyTransition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), id); err != nil {
		abortTransitionError(c, err, "Appointment")
		return
	}
	c.Status(http.StatusNoContent)
}
