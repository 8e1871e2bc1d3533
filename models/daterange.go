package models

import "time"

// CheckInHour is the hour of day reservations with rooms check in and out.
// It doubles as the same-day cutoff: once the clock passes it, rooms can no
// longer be booked for the current day.
const CheckInHour = 8

// DateRange is the requested stay window. Either endpoint may be unset while
// the customer is still picking dates.
type DateRange struct {
	Start *time.Time `json:"startDate,omitempty"`
	End   *time.Time `json:"endDate,omitempty"`
}

// Complete reports whether both endpoints are set.
func (dr DateRange) Complete() bool {
	return dr.Start != nil && dr.End != nil
}

// SnapToHour returns t with the clock set to the given hour on the same day.
func SnapToHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
