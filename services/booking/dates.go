package booking

import (
	"time"

	"venuebook/models"
)

// User-facing date validation messages.
const (
	msgPastDate      = "Dates in the past cannot be booked"
	msgCutoffPassed  = "Same-day check-in is closed; the earliest check-in is tomorrow"
	msgEndBeforeMin  = "Check-out cannot be moved before the earliest allowed check-in"
	msgHourlyEndSet  = "End time is derived from the package duration and cannot be set directly"
	msgIncompleteSet = "Select both a check-in and a check-out date"
)

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// minStartDay returns the earliest bookable day for the given composition.
// Rooms past the check-in cutoff push the minimum to tomorrow.
func minStartDay(comp Composition, now time.Time) time.Time {
	min := dayOf(now)
	if comp.HasRooms && now.Hour() >= models.CheckInHour {
		min = min.AddDate(0, 0, 1)
	}
	return min
}

// snapFor normalizes a picked date to the shape the composition requires:
// rooms snap to the check-in hour, daily packages to midnight, hourly
// packages keep the raw time the customer picked.
func snapFor(comp Composition, t time.Time) time.Time {
	switch {
	case comp.HasRooms:
		return models.SnapToHour(t, models.CheckInHour)
	case comp.OnlyHourly:
		return t
	default:
		return models.SnapToHour(t, 0)
	}
}

// applyStart applies a new start date to the range under the composition's
// rules. It returns the updated range and a user-facing message; a non-empty
// message with an unchanged range means the input was rejected.
//
// Collision policy: the endpoint being edited wins. A start landing on or
// after the current end pushes the end forward to keep the one-night minimum
// for rooms (or equality for daily packages).
func applyStart(dr models.DateRange, comp Composition, now, newStart time.Time) (models.DateRange, string) {
	start := snapFor(comp, newStart)
	min := minStartDay(comp, now)

	if dayOf(start).Before(min) {
		if comp.HasRooms && !dayOf(newStart).Before(dayOf(now)) {
			return dr, msgCutoffPassed
		}
		return dr, msgPastDate
	}

	dr.Start = &start
	switch {
	case comp.OnlyHourly:
		end := start.Add(time.Duration(comp.MaxHourlyDuration) * time.Hour)
		dr.End = &end
	case comp.HasRooms:
		if dr.End != nil && !dayOf(*dr.End).After(dayOf(start)) {
			end := models.SnapToHour(start.AddDate(0, 0, 1), models.CheckInHour)
			dr.End = &end
		}
	default:
		if dr.End != nil && dayOf(*dr.End).Before(dayOf(start)) {
			end := start
			dr.End = &end
		}
	}
	return dr, ""
}

// applyEnd mirrors applyStart for the end date. An end landing on or before
// the current start pulls the start backward, unless that would cross the
// minimum bookable day, in which case the edit is rejected.
func applyEnd(dr models.DateRange, comp Composition, now, newEnd time.Time) (models.DateRange, string) {
	if comp.OnlyHourly {
		return dr, msgHourlyEndSet
	}

	end := snapFor(comp, newEnd)
	min := minStartDay(comp, now)

	if dayOf(end).Before(min) {
		return dr, msgPastDate
	}

	if comp.HasRooms {
		if dr.Start != nil && !dayOf(end).After(dayOf(*dr.Start)) {
			shifted := models.SnapToHour(end.AddDate(0, 0, -1), models.CheckInHour)
			if dayOf(shifted).Before(min) {
				return dr, msgEndBeforeMin
			}
			dr.Start = &shifted
		}
	} else {
		if dr.Start != nil && dayOf(end).Before(dayOf(*dr.Start)) {
			shifted := end
			if dayOf(shifted).Before(min) {
				return dr, msgEndBeforeMin
			}
			dr.Start = &shifted
		}
	}
	dr.End = &end
	return dr, ""
}

// renormalize re-shapes an already chosen range after the selection
// composition changes, e.g. room-shaped 08:00 snapping re-normalized to the
// package shape when the last room is deselected. History is not mutated;
// this is a recomputation over the stored endpoints.
func renormalize(dr models.DateRange, comp Composition) models.DateRange {
	if dr.Start != nil {
		start := snapFor(comp, *dr.Start)
		dr.Start = &start
	}
	switch {
	case comp.OnlyHourly:
		if dr.Start != nil {
			end := dr.Start.Add(time.Duration(comp.MaxHourlyDuration) * time.Hour)
			dr.End = &end
		} else {
			dr.End = nil
		}
	case comp.HasRooms:
		if dr.End != nil {
			end := snapFor(comp, *dr.End)
			dr.End = &end
		}
		if dr.Start != nil && dr.End != nil && !dayOf(*dr.End).After(dayOf(*dr.Start)) {
			end := models.SnapToHour(dr.Start.AddDate(0, 0, 1), models.CheckInHour)
			dr.End = &end
		}
	default:
		if dr.End != nil {
			end := snapFor(comp, *dr.End)
			dr.End = &end
		}
	}
	return dr
}

// validateRange reports whether the range is complete and satisfies the
// composition's invariants, returning a user-facing message when it does not.
func validateRange(dr models.DateRange, comp Composition) string {
	if comp.OnlyHourly {
		if dr.Start == nil {
			return msgIncompleteSet
		}
		return ""
	}
	if !dr.Complete() {
		return msgIncompleteSet
	}
	if comp.HasRooms && !dayOf(*dr.End).After(dayOf(*dr.Start)) {
		return "Check-out must be at least one day after check-in"
	}
	if !comp.HasRooms && dayOf(*dr.End).Before(dayOf(*dr.Start)) {
		return "Check-out cannot be before check-in"
	}
	return ""
}
