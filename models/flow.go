package models

// AvailabilityResult is the last backend verdict for the current
// (facility, dates, items) tuple. It is reset whenever any input changes
// and repopulated when a fresh response arrives.
type AvailabilityResult struct {
	IsAvailable bool   `json:"isAvailable"`
	Message     string `json:"message"`
}

// FlowState tracks where a booking session is in its lifecycle.
type FlowState string

const (
	StateSelectingItems      FlowState = "selecting_items"
	StateSelectingDates      FlowState = "selecting_dates"
	StateAvailabilityUnknown FlowState = "availability_unknown"
	StateAvailabilityKnown   FlowState = "availability_known"
	StateReadyToReserve      FlowState = "ready_to_reserve"
	StateSubmitting          FlowState = "submitting"
	StateSubmitted           FlowState = "submitted"
	StateSubmissionFailed    FlowState = "submission_failed"
)

// BookingSnapshot is the serializable view of a booking session, persisted to
// Redis as the draft handed between the booking and confirmation steps, and
// returned to clients polling session state.
type BookingSnapshot struct {
	SessionID     string             `json:"sessionId"`
	UserID        string             `json:"userId,omitempty"`
	Facility      Facility           `json:"facility"`
	CustomerType  CustomerType       `json:"customerType"`
	Items         []BookingItem      `json:"items"`
	Dates         DateRange          `json:"dates"`
	Availability  AvailabilityResult `json:"availability"`
	Total         float64            `json:"total"`
	State         FlowState          `json:"state"`
	DateMessage   string             `json:"dateMessage,omitempty"`
	CheckFailed   bool               `json:"checkFailed,omitempty"`
	TotalFailed   bool               `json:"totalFailed,omitempty"`
	ReservationID int                `json:"reservationId,omitempty"`
}
