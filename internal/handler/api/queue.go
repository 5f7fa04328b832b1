package api

import (
	"errors"
	"net/http"

	reqdto "waitdesk/internal/handler/dto/request"
	resdto "waitdesk/internal/handler/dto/response"
	"waitdesk/internal/handler/httperr"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/usecase/commands"
	"waitdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueueHandler struct {
	queue commands.QueueCommands
	views queries.QueueQueries
	clk   clock.Clock
}

func NewQueueHandler(queue commands.QueueCommands, views queries.QueueQueries, clk clock.Clock) *QueueHandler {
	return &QueueHandler{
		queue: queue,
		views: views,
		clk:   clk,
	}
}

// @Summary Join queue
// @Description Join the walk-in queue after running the admission rules
// @Tags queue
// @Accept json
// @Produce json
// @Param request body reqdto.JoinQueueRequest true "Join request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /queue [post]
func (h *QueueHandler) Join(c *gin.Context) {
	var req reqdto.JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	id, err := h.queue.Join(c.Request.Context(), input)
	if err != nil {
		var violation *commands.RuleViolationError
		switch {
		case errors.As(err, &violation):
			abortRuleViolation(c, violation)
		case infra.IsKind(err, infra.KindConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Queue position was taken by a concurrent join", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Get queue entry
// @Description Current state of one entry, with live rank and wait estimate
// @Tags queue
// @Produce json
// @Param id path string true "Queue entry ID"
// @Success 200 {object} resdto.QueueEntryResponse
// @Failure 404 {object} httperr.Response
// @Router /queue/{id} [get]
func (h *QueueHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.views.Get(c.Request.Context(), id, h.clk.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Queue entry not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQueueEntryView(view))
}

// @Summary List active queue
// @Description Active entries for a service in call order
// @Tags queue
// @Produce json
// @Param service_id query string true "Service ID"
// @Success 200 {array} resdto.QueueEntryResponse
// @Failure 400 {object} httperr.Response
// @Router /queue [get]
func (h *QueueHandler) List(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "service_id is required", nil)
		return
	}

	views, err := h.views.ListActive(c.Request.Context(), serviceID, h.clk.Now())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQueueEntryViews(views))
}

// @Summary Call next customer
// @Description Promote the head of the queue to CALLED
// @Tags queue
// @Produce json
// @Param service_id query string true "Service ID"
// @Success 200 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /queue/next [post]
func (h *QueueHandler) CallNext(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "service_id is required", nil)
		return
	}

	id, err := h.queue.CallNext(c.Request.Context(), serviceID)
	if err != nil {
		if errors.Is(err, errs.ErrQueueEmpty) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "No customers waiting", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.CreatedResponse{ID: id})
}

// @Summary Start serving queue entry
// @Tags queue
// @Param id path string true "Queue entry ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /queue/{id}/start [post]
func (h *QueueHandler) StartService(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.queue.StartService(c.Request.Context(), id); err != nil {
		abortTransitionError(c, err, "Queue entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Complete queue entry
// @Tags queue
// @Param id path string true "Queue entry ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /queue/{id}/complete [post]
func (h *QueueHandler) Complete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.queue.Complete(c.Request.Context(), id); err != nil {
		abortTransitionError(c, err, "Queue entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Leave queue
// @Description Cancel keeps the record; cancelling twice is a no-op
// @Tags queue
// @Param id path string true "Queue entry ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /queue/{id} [delete]
func (h *QueueHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.queue.Cancel(c.Request.Context(), id); err != nil {
		abortTransitionError(c, err, "Queue entry")
		return
	}
	c.Status(http.StatusNoContent)
}
