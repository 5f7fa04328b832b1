//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"waitdesk/internal/domain/queue"
	"waitdesk/internal/handler/api"
	resdto "waitdesk/internal/handler/dto/response"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/rules"
	"waitdesk/internal/usecase/commands"
	"waitdesk/internal/usecase/queries"
	"waitdesk/tests/common/builder"
	"waitdesk/tests/common/httptest"
	"waitdesk/tests/common/testutil"
	commandsmock "waitdesk/tests/mock/commands"
	queriesmock "waitdesk/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type QueueHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockQueueCommands
	mockQueries  *queriesmock.MockQueueQueries
	handler      *api.QueueHandler
}

func (s *QueueHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockQueueCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockQueueQueries(s.mockCtrl)
	clk := clock.NewMockClock(time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC))
	s.handler = api.NewQueueHandler(s.mockCommands, s.mockQueries, clk)

	s.router.POST("/queue", s.handler.Join)
	s.router.GET("/queue", s.handler.List)
	s.router.POST("/queue/next", s.handler.CallNext)
	s.router.GET("/queue/:id", s.handler.Get)
	s.router.POST("/queue/:id/start", s.handler.StartService)
	s.router.POST("/queue/:id/complete", s.handler.Complete)
	s.router.DELETE("/queue/:id", s.handler.Cancel)
}

func (s *QueueHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestQueueHandlerSuite(t *testing.T) {
	suite.Run(t, new(QueueHandlerTestSuite))
}

// ================================================================================
// TestJoin
// ================================================================================

func (s *QueueHandlerTestSuite) TestJoin() {
	url := "/queue"
	reqBody := builder.NewQueueEntryBuilder().BuildJoinRequestDTO()

	s.Run("success: returns 201 Created for valid request", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Join(gomock.Any(), gomock.Any()).Return(id, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var res resdto.CreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(id, res.ID)
	})

	s.Run("validation", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing service_id", mutate: testutil.Field("service_id", nil)},
			{name: "missing customer_name", mutate: testutil.Field("customer_name", nil)},
			{name: "missing customer_email", mutate: testutil.Field("customer_email", nil)},
			{name: "unknown priority", mutate: testutil.Field("priority", "URGENT")},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, c.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})

	s.Run("omitted priority defaults to normal", func() {
		s.mockCommands.EXPECT().Join(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.JoinQueueInput) (uuid.UUID, error) {
				s.Equal(queue.PriorityNormal, in.Priority)
				return uuid.New(), nil
			}).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("priority", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("rule violations map to status and code", func() {
		cases := []struct {
			name       string
			code       string
			expectCode int
		}{
			{name: "unknown service", code: rules.CodeServiceNotFound, expectCode: http.StatusNotFound},
			{name: "already queued", code: rules.CodeAlreadyInQueue, expectCode: http.StatusConflict},
			{name: "queue full", code: rules.CodeQueueFull, expectCode: http.StatusConflict},
			{name: "outside opening hours", code: rules.CodeQueueClosed, expectCode: http.StatusUnprocessableEntity},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockCommands.EXPECT().Join(gomock.Any(), gomock.Any()).
					Return(uuid.Nil, &commands.RuleViolationError{Code: c.code, Message: "rejected"}).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorCode(s.T(), rec, c.expectCode, c.code)
			})
		}
	})

	s.Run("concurrent conflict returns 409", func() {
		s.mockCommands.EXPECT().Join(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.WrapRepoErr("taken", errors.New("taken"), infra.KindConflict)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "concurrent join")
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func queueEntryView(rank int32) *queries.QueueEntryView {
	now := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)
	return &queries.QueueEntryView{
		ID:                 uuid.New(),
		ServiceID:          uuid.New(),
		Position:           3,
		Status:             queue.StatusWaiting,
		Priority:           queue.PriorityNormal,
		CustomerName:       "Walk-in Customer",
		CustomerEmail:      "walkin@example.com",
		JoinedAt:           now,
		Rank:               rank,
		EstimatedWaitMin:   rank * 15,
		EstimatedServiceAt: now.Add(time.Duration(rank*15) * time.Minute),
	}
}

func (s *QueueHandlerTestSuite) TestGet() {
	s.Run("success: returns rank and wait estimate", func() {
		view := queueEntryView(2)
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID, gomock.Any()).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/queue/"+view.ID.String(), nil)

		var res resdto.QueueEntryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(int32(2), res.Rank)
		s.Equal(int32(30), res.EstimatedWaitMin)
		s.NotNil(res.EstimatedServiceAt)
	})

	s.Run("unknown id returns 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().Get(gomock.Any(), id, gomock.Any()).
			Return(nil, infra.WrapRepoErr("missing", errors.New("missing"), infra.KindNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/queue/"+id.String(), nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *QueueHandlerTestSuite) TestList() {
	s.Run("success: returns entries in call order", func() {
		serviceID := uuid.New()
		s.mockQueries.EXPECT().ListActive(gomock.Any(), serviceID, gomock.Any()).
			Return([]queries.QueueEntryView{*queueEntryView(1), *queueEntryView(2)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/queue?service_id="+serviceID.String(), nil)

		var res []resdto.QueueEntryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Len(res, 2)
	})

	s.Run("missing service_id returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/queue", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

// ================================================================================
// TestCallNext / TestTransitions
// ================================================================================

func (s *QueueHandlerTestSuite) TestCallNext() {
	serviceID := uuid.New()
	url := "/queue/next?service_id=" + serviceID.String()

	s.Run("success: returns the called entry id", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().CallNext(gomock.Any(), serviceID).Return(id, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil)

		var res resdto.CreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(id, res.ID)
	})

	s.Run("empty queue returns 404", func() {
		s.mockCommands.EXPECT().CallNext(gomock.Any(), serviceID).
			Return(uuid.Nil, errs.Wrap(errs.ErrQueueEmpty, "no waiting entries")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No customers waiting")
	})

	s.Run("missing service_id returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/queue/next", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *QueueHandlerTestSuite) TestTransitions() {
	id := uuid.New()

	s.Run("start service returns 204", func() {
		s.mockCommands.EXPECT().StartService(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/queue/"+id.String()+"/start", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("cancel returns 204", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/queue/"+id.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("illegal transition returns 409", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), id).Return(queue.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/queue/"+id.String()+"/complete", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "does not allow")
	})
}
