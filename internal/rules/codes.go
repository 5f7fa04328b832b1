package rules

// Stable failure codes surfaced to callers. These are part of the API
// contract; clients branch on them.
const (
	CodeServiceNotFound       = "SERVICE_NOT_FOUND"
	CodeServiceInactive       = "SERVICE_INACTIVE"
	CodeBookingTooSoon        = "BOOKING_TOO_SOON"
	CodeBookingTooFar         = "BOOKING_TOO_FAR"
	CodeBusinessHoursClosed   = "BUSINESS_HOURS_CLOSED"
	CodeOutsideBusinessHours  = "OUTSIDE_BUSINESS_HOURS"
	CodeDuplicateAppointment  = "DUPLICATE_APPOINTMENT"
	CodeTimeSlotUnavailable   = "TIME_SLOT_UNAVAILABLE"
	CodeDailyCapacityExceeded = "DAILY_CAPACITY_EXCEEDED"
	CodeQueueClosed           = "QUEUE_CLOSED"
	CodeAlreadyInQueue        = "ALREADY_IN_QUEUE"
	CodeQueueFull             = "QUEUE_FULL"
)
