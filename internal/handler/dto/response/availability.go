package response

import (
	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type DayAvailabilityResponse struct {
	ServiceID uuid.UUID      `json:"service_id"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

func FromDayAvailability(v *queries.DayAvailability) DayAvailabilityResponse {
	slots := make([]SlotResponse, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = SlotResponse{
			StartTime: s.Slot.Start.String(),
			EndTime:   s.Slot.End.String(),
			Available: s.Available,
		}
	}
	return DayAvailabilityResponse{
		ServiceID: v.ServiceID,
		Date:      v.Date.Format("2006-01-02"),
		Slots:     slots,
	}
}
