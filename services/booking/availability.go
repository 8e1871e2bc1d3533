package booking

import (
	"context"
	"sync"
	"time"

	"venuebook/backend"
	"venuebook/models"
	"venuebook/utils"

	"go.uber.org/zap"
)

// msgCheckFailed is the availability message shown when the backend call fails.
const msgCheckFailed = "Error checking availability"

// availabilityChecker asks the backend whether the current selection and
// dates are bookable. Rapid input changes are debounced into one request, and
// every issued request carries a monotonic sequence number so a late response
// to superseded inputs can never overwrite a newer result. Inputs identical
// to the previously issued tuple are a no-op, so edits that do not touch
// availability inputs never discard a fresh verdict.
type availabilityChecker struct {
	api      ReservationAPI
	debounce *debouncer
	onUpdate func()

	mu     sync.Mutex
	seq    uint64
	result models.AvailabilityResult
	// resultKey is the canonical input key the current result was computed
	// for. Empty means the result is stale relative to the current inputs.
	resultKey string
	// lastIssuedKey is the canonical key of the most recently scheduled
	// request, compared for deduplication.
	lastIssuedKey string
	failed        bool
}

func newAvailabilityChecker(api ReservationAPI, delay time.Duration, onUpdate func()) *availabilityChecker {
	return &availabilityChecker{
		api:      api,
		debounce: newDebouncer(delay),
		onUpdate: onUpdate,
	}
}

// Refresh re-evaluates availability after an input change. Incomplete inputs
// short-circuit to a negative result without touching the network, and a
// tuple identical to the previously issued one leaves the current result
// untouched.
func (ac *availabilityChecker) Refresh(token string, facilityID int, dr models.DateRange, items []models.BookingItem) {
	if facilityID == 0 || len(items) == 0 || !dr.Complete() {
		ac.debounce.Stop()
		ac.mu.Lock()
		ac.seq++
		ac.result = models.AvailabilityResult{}
		ac.resultKey = ""
		ac.lastIssuedKey = ""
		ac.failed = false
		ac.mu.Unlock()
		return
	}

	key := canonicalKey(facilityID, "", dr, items)
	req := backend.AvailabilityRequest{
		FacilityID: facilityID,
		StartDate:  dr.Start.Format(time.RFC3339),
		EndDate:    dr.End.Format(time.RFC3339),
		Items:      items,
	}

	ac.mu.Lock()
	if key == ac.lastIssuedKey {
		ac.mu.Unlock()
		return
	}
	ac.seq++
	mySeq := ac.seq
	ac.resultKey = ""
	ac.lastIssuedKey = key
	ac.failed = false
	ac.mu.Unlock()

	ac.debounce.Trigger(func() {
		ac.issue(token, mySeq, key, req)
	})
}

func (ac *availabilityChecker) issue(token string, seq uint64, key string, req backend.AvailabilityRequest) {
	result, err := ac.api.CheckAvailability(context.Background(), token, req)

	ac.mu.Lock()
	if seq != ac.seq {
		// Inputs changed while this request was in flight; discard.
		ac.mu.Unlock()
		return
	}
	if err != nil {
		utils.GetLogger().Warn("availability check failed", zap.Int("facilityID", req.FacilityID), zap.Error(err))
		ac.result = models.AvailabilityResult{IsAvailable: false, Message: msgCheckFailed}
		ac.resultKey = ""
		ac.failed = true
	} else {
		ac.result = result
		ac.resultKey = key
		ac.failed = false
	}
	ac.mu.Unlock()

	if ac.onUpdate != nil {
		ac.onUpdate()
	}
}

// State returns the last result, whether it is fresh for the current inputs,
// and whether the last check failed.
func (ac *availabilityChecker) State() (models.AvailabilityResult, bool, bool) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.result, ac.resultKey != "", ac.failed
}

func (ac *availabilityChecker) Stop() {
	ac.debounce.Stop()
}
