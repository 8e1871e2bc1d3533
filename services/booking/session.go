package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"venuebook/models"
)

// ErrAlreadySubmitted is returned when a mutation arrives after the
// reservation was submitted.
var ErrAlreadySubmitted = errors.New("booking session already submitted")

// flowSession owns all reconciliation state for one booking flow: the item
// selection, the date range, and the async availability and total evaluators.
// Every mutation renormalizes the dates, retriggers both evaluators, and
// recomputes the flow state.
type flowSession struct {
	mu sync.Mutex

	id           string
	userID       string
	token        string
	facility     models.Facility
	customerType models.CustomerType
	selection    Selection
	dates        models.DateRange
	dateMessage  string
	state        models.FlowState

	reservationID int

	checker    *availabilityChecker
	calculator *totalCalculator

	now     func() time.Time
	persist func(models.BookingSnapshot)
}

func newFlowSession(
	id, userID, token string,
	facility models.Facility,
	customerType models.CustomerType,
	api ReservationAPI,
	debounce time.Duration,
	now func() time.Time,
	persist func(models.BookingSnapshot),
) *flowSession {
	s := &flowSession{
		id:           id,
		userID:       userID,
		token:        token,
		facility:     facility,
		customerType: customerType,
		state:        models.StateSelectingItems,
		now:          now,
		persist:      persist,
	}
	s.checker = newAvailabilityChecker(api, debounce, s.onAsyncUpdate)
	s.calculator = newTotalCalculator(api, debounce, s.onAsyncUpdate)
	return s
}

// onAsyncUpdate runs when a debounced evaluator adopts a fresh result.
func (s *flowSession) onAsyncUpdate() {
	s.mu.Lock()
	s.recomputeStateLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if s.persist != nil {
		s.persist(snap)
	}
}

// SetQuantity mutates the selection. Rooms and packages are mutually
// exclusive in one reservation: adding one kind clears the other.
func (s *flowSession) SetQuantity(itemType models.ItemType, itemID, quantity int) (models.BookingSnapshot, error) {
	s.mu.Lock()
	if s.state == models.StateSubmitted || s.state == models.StateSubmitting {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrAlreadySubmitted
	}

	if quantity > 0 {
		switch itemType {
		case models.ItemTypeRoom:
			if s.selection.HasPackages() {
				s.selection.ClearType(models.ItemTypePackage)
			}
		case models.ItemTypePackage:
			if s.selection.HasRooms() {
				s.selection.ClearType(models.ItemTypeRoom)
			}
		}
	}
	s.selection.SetQuantity(itemType, itemID, quantity)
	return s.afterInputChangeLocked()
}

// SetDates applies new start/end values. Either may be nil to leave that
// endpoint untouched. The composition-specific rules in dates.go decide
// whether the edit is accepted, auto-corrected, or rejected with a message.
func (s *flowSession) SetDates(start, end *time.Time) (models.BookingSnapshot, error) {
	s.mu.Lock()
	if s.state == models.StateSubmitted || s.state == models.StateSubmitting {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrAlreadySubmitted
	}

	comp := Classify(&s.selection, s.facility)
	now := s.now()
	s.dateMessage = ""

	if start != nil {
		dr, msg := applyStart(s.dates, comp, now, *start)
		s.dates = dr
		s.dateMessage = msg
	}
	if end != nil && s.dateMessage == "" {
		dr, msg := applyEnd(s.dates, comp, now, *end)
		s.dates = dr
		s.dateMessage = msg
	}
	return s.afterInputChangeLocked()
}

// SetCustomerType switches the pricing sector, which invalidates the total
// but not availability.
func (s *flowSession) SetCustomerType(customerType models.CustomerType) (models.BookingSnapshot, error) {
	s.mu.Lock()
	if s.state == models.StateSubmitted || s.state == models.StateSubmitting {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrAlreadySubmitted
	}
	s.customerType = customerType
	return s.afterInputChangeLocked()
}

// afterInputChangeLocked renormalizes dates to the (possibly new)
// composition, retriggers both evaluators, recomputes flow state, and
// persists a draft snapshot. Called with s.mu held; releases it.
func (s *flowSession) afterInputChangeLocked() (models.BookingSnapshot, error) {
	comp := Classify(&s.selection, s.facility)
	s.dates = renormalize(s.dates, comp)
	if s.state == models.StateSubmissionFailed {
		s.state = models.StateAvailabilityUnknown
	}

	items := s.selection.Items()
	evalDates := s.evalRangeLocked(comp)
	s.checker.Refresh(s.token, s.facility.FacilityID, evalDates, items)
	s.calculator.Refresh(s.token, s.facility.FacilityID, s.customerType, evalDates, items)

	s.recomputeStateLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persist != nil {
		s.persist(snap)
	}
	return snap, nil
}

// evalRangeLocked returns the range the evaluators should see: incomplete
// when the stored dates do not validate for the current composition, so the
// evaluators short-circuit rather than query the backend with bad dates.
func (s *flowSession) evalRangeLocked(comp Composition) models.DateRange {
	if validateRange(s.dates, comp) != "" {
		return models.DateRange{}
	}
	return s.dates
}

func (s *flowSession) recomputeStateLocked() {
	switch s.state {
	case models.StateSubmitting, models.StateSubmitted, models.StateSubmissionFailed:
		return
	}

	if s.selection.IsEmpty() {
		s.state = models.StateSelectingItems
		return
	}
	comp := Classify(&s.selection, s.facility)
	if validateRange(s.dates, comp) != "" {
		s.state = models.StateSelectingDates
		return
	}
	result, fresh, _ := s.checker.State()
	if !fresh {
		s.state = models.StateAvailabilityUnknown
		return
	}
	if result.IsAvailable {
		s.state = models.StateReadyToReserve
	} else {
		s.state = models.StateAvailabilityKnown
	}
}

// Confirm assembles and submits the reservation. On failure the flow returns
// to a reservable state so the customer may retry.
func (s *flowSession) Confirm(ctx context.Context, api ReservationAPI, details models.UserDetails, paymentMethod string) (models.BookingSnapshot, error) {
	s.mu.Lock()
	if s.state == models.StateSubmissionFailed {
		// A failed submission returns the flow to a reservable state for retry.
		s.state = models.StateAvailabilityUnknown
	}
	s.recomputeStateLocked()
	if s.state != models.StateReadyToReserve {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrNotReady
	}

	total, _ := s.calculator.State()
	payload, err := AssembleReservation(s.facility, s.selection.Items(), s.dates, s.customerType, total, paymentMethod, details)
	if err != nil {
		defer s.mu.Unlock()
		return s.snapshotLocked(), err
	}

	s.state = models.StateSubmitting
	token := s.token
	s.mu.Unlock()

	reservationID, err := api.CreateReservation(ctx, token, payload)

	s.mu.Lock()
	if err != nil {
		s.state = models.StateSubmissionFailed
		defer s.mu.Unlock()
		return s.snapshotLocked(), &SubmissionError{Err: err}
	}
	s.state = models.StateSubmitted
	s.reservationID = reservationID
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// Snapshot returns the current session view, recomputing derived state.
func (s *flowSession) Snapshot() models.BookingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeStateLocked()
	return s.snapshotLocked()
}

func (s *flowSession) snapshotLocked() models.BookingSnapshot {
	result, _, checkFailed := s.checker.State()
	total, totalFailed := s.calculator.State()

	return models.BookingSnapshot{
		SessionID:     s.id,
		UserID:        s.userID,
		Facility:      s.facility,
		CustomerType:  s.customerType,
		Items:         s.selection.Items(),
		Dates:         s.dates,
		Availability:  result,
		Total:         total,
		State:         s.state,
		DateMessage:   s.dateMessage,
		CheckFailed:   checkFailed,
		TotalFailed:   totalFailed,
		ReservationID: s.reservationID,
	}
}

// Close stops the evaluators' timers.
func (s *flowSession) Close() {
	s.checker.Stop()
	s.calculator.Stop()
}
