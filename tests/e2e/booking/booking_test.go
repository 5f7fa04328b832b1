//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"waitdesk/internal/handler/dto/response"
	"waitdesk/tests/common/builder"
	"waitdesk/tests/common/dbtest"
	"waitdesk/tests/common/httptest"
	"waitdesk/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	appointmentsURL = "/api/appointments"
	availabilityURL = "/api/services/%s/availability?date=%s"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// bookingDate returns a date safely inside the default advance-booking window.
func bookingDate() time.Time {
	return time.Now().UTC().AddDate(0, 0, 7)
}

func createAppointment(t *testing.T, s *BookingSuite, serviceID uuid.UUID, start, end, email string) uuid.UUID {
	t.Helper()

	reqBody := builder.NewAppointmentBuilder().
		With(func(b *builder.AppointmentBuilder) {
			b.ServiceID = serviceID
			b.Date = bookingDate()
			b.StartTime = start
			b.EndTime = end
			b.CustomerEmail = email
		}).
		BuildCreateRequestDTO()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
	require.Equal(t, http.StatusCreated, w.Code, "appointment creation should succeed: %s", w.Body.String())

	var created response.CreatedResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	return created.ID
}

// =============================================================================
// TestCreateAppointment - Booking API tests
// =============================================================================

func (s *BookingSuite) TestCreateAppointment() {
	s.Run("Normal case: customer can book an open slot", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		id := createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, appointmentsURL+"/"+id.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var actual response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &actual))

		expected := &response.AppointmentResponse{
			ServiceID:     serviceID,
			ServiceName:   "Consultation",
			Date:          bookingDate().Format("2006-01-02"),
			StartTime:     "10:00",
			EndTime:       "10:30",
			Status:        "SCHEDULED",
			CustomerName:  "Dana Smith",
			CustomerEmail: "alice@example.com",
			CustomerPhone: "555-0100",
		}

		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.AppointmentResponse{}, "ID", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			t.Errorf("appointment response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Error case: overlapping slot is rejected", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		reqBody := builder.NewAppointmentBuilder().
			With(func(b *builder.AppointmentBuilder) {
				b.ServiceID = serviceID
				b.Date = bookingDate()
				b.StartTime = "10:00"
				b.EndTime = "10:30"
				b.CustomerEmail = "bob@example.com"
			}).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "TIME_SLOT_UNAVAILABLE")
	})

	s.Run("Error case: same customer cannot hold two open appointments", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		reqBody := builder.NewAppointmentBuilder().
			With(func(b *builder.AppointmentBuilder) {
				b.ServiceID = serviceID
				b.Date = bookingDate()
				b.StartTime = "14:00"
				b.EndTime = "14:30"
				b.CustomerEmail = "alice@example.com"
			}).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "DUPLICATE_APPOINTMENT")
	})

	s.Run("Error case: unknown service returns 404", func() {
		t := s.T()

		reqBody := builder.NewAppointmentBuilder().
			With(func(b *builder.AppointmentBuilder) {
				b.Date = bookingDate()
			}).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "SERVICE_NOT_FOUND")
	})

	s.Run("Error case: daily capacity is enforced", func() {
		t := s.T()

		limit := int32(1)
		serviceID := dbtest.CreateTestServiceWithLimits(t, s.DB, "Limited", 30, &limit, nil)
		createAppointment(t, s, serviceID, "09:00", "09:30", "alice@example.com")

		reqBody := builder.NewAppointmentBuilder().
			With(func(b *builder.AppointmentBuilder) {
				b.ServiceID = serviceID
				b.Date = bookingDate()
				b.StartTime = "11:00"
				b.EndTime = "11:30"
				b.CustomerEmail = "bob@example.com"
			}).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "DAILY_CAPACITY_EXCEEDED")
	})
}

// =============================================================================
// TestAvailability - Slot grid reflects bookings
// =============================================================================

func (s *BookingSuite) TestAvailability() {
	s.Run("Normal case: booked slot is marked unavailable", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		url := fmt.Sprintf(availabilityURL, serviceID, bookingDate().Format("2006-01-02"))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var day response.DayAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &day))
		require.Equal(t, serviceID, day.ServiceID)
		require.NotEmpty(t, day.Slots)

		var booked, open *response.SlotResponse
		for i := range day.Slots {
			switch day.Slots[i].StartTime {
			case "10:00":
				booked = &day.Slots[i]
			case "11:00":
				open = &day.Slots[i]
			}
		}
		require.NotNil(t, booked, "grid should contain the 10:00 slot")
		require.False(t, booked.Available, "booked slot should be unavailable")
		require.NotNil(t, open, "grid should contain the 11:00 slot")
		require.True(t, open.Available, "untouched slot should be available")
	})

	s.Run("Error case: unknown service returns 404", func() {
		t := s.T()

		url := fmt.Sprintf(availabilityURL, uuid.New(), bookingDate().Format("2006-01-02"))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestAppointmentLifecycle - Status transition flow
// =============================================================================

func (s *BookingSuite) TestAppointmentLifecycle() {
	s.Run("Normal case: scheduled appointment runs to completion", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		id := createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")
		base := appointmentsURL + "/" + id.String()

		for _, action := range []string{"/confirm", "/start", "/complete"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, base+action, nil)
			require.Equal(t, http.StatusNoContent, w.Code, "transition %s should succeed", action)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var actual response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &actual))
		require.Equal(t, "COMPLETED", actual.Status)
	})

	s.Run("Error case: starting a scheduled appointment is rejected", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		id := createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL+"/"+id.String()+"/start", nil)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Normal case: cancelling frees the slot for rebooking", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)
		id := createAppointment(t, s, serviceID, "10:00", "10:30", "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, appointmentsURL+"/"+id.String(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		createAppointment(t, s, serviceID, "10:00", "10:30", "bob@example.com")
	})

	s.Run("Error case: unknown appointment returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL+"/"+uuid.NewString()+"/confirm", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestConcurrentBooking - Exclusion constraint under parallel requests
// =============================================================================

func (s *BookingSuite) TestConcurrentBooking() {
	s.Run("Normal case: exactly one of two racing bookings wins", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Consultation", 30)

		emails := []string{"alice@example.com", "bob@example.com"}
		codes := make([]int, len(emails))

		var wg sync.WaitGroup
		for i, email := range emails {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reqBody := builder.NewAppointmentBuilder().
					With(func(b *builder.AppointmentBuilder) {
						b.ServiceID = serviceID
						b.Date = bookingDate()
						b.StartTime = "10:00"
						b.EndTime = "10:30"
						b.CustomerEmail = email
					}).
					BuildCreateRequestDTO()

				w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, reqBody)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
			default:
				t.Fatalf("unexpected status code %d", code)
			}
		}
		require.Equal(t, 1, created, "exactly one booking should win the slot")
	})
}
