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

// totalCalculator asks the backend to price the current selection. It shares
// the checker's debounce and stale-response guard, and additionally
// deduplicates: an input tuple identical to the previously issued one is a
// true no-op, not just a debounced call.
type totalCalculator struct {
	api      ReservationAPI
	debounce *debouncer
	onUpdate func()

	mu    sync.Mutex
	seq   uint64
	total float64
	// lastIssuedKey is the canonical key of the most recently scheduled
	// request, compared for deduplication.
	lastIssuedKey string
	failed        bool
}

func newTotalCalculator(api ReservationAPI, delay time.Duration, onUpdate func()) *totalCalculator {
	return &totalCalculator{
		api:      api,
		debounce: newDebouncer(delay),
		onUpdate: onUpdate,
	}
}

// Refresh re-prices the selection after an input change.
//
// Reset rules: an empty selection or missing facility resets the total to
// zero without a network call. Missing dates for date-dependent items skip
// the computation and leave the total unchanged, so the customer never sees
// the total flash to zero mid-edit.
func (tc *totalCalculator) Refresh(token string, facilityID int, customerType models.CustomerType, dr models.DateRange, items []models.BookingItem) {
	if facilityID == 0 || len(items) == 0 {
		tc.debounce.Stop()
		tc.mu.Lock()
		tc.seq++
		tc.total = 0
		tc.lastIssuedKey = ""
		tc.failed = false
		tc.mu.Unlock()
		return
	}

	if !dr.Complete() {
		tc.debounce.Stop()
		tc.mu.Lock()
		tc.seq++
		tc.lastIssuedKey = ""
		tc.mu.Unlock()
		return
	}

	key := canonicalKey(facilityID, customerType, dr, items)
	req := backend.TotalRequest{
		FacilityID:    facilityID,
		CustomerType:  customerType,
		StartDate:     dr.Start.Format(time.RFC3339),
		EndDate:       dr.End.Format(time.RFC3339),
		SelectedItems: items,
	}

	tc.mu.Lock()
	if key == tc.lastIssuedKey {
		tc.mu.Unlock()
		return
	}
	tc.seq++
	mySeq := tc.seq
	tc.lastIssuedKey = key
	tc.mu.Unlock()

	tc.debounce.Trigger(func() {
		tc.issue(token, mySeq, req)
	})
}

func (tc *totalCalculator) issue(token string, seq uint64, req backend.TotalRequest) {
	total, err := tc.api.CalculateTotal(context.Background(), token, req)

	tc.mu.Lock()
	if seq != tc.seq {
		tc.mu.Unlock()
		return
	}
	if err != nil {
		utils.GetLogger().Warn("total calculation failed", zap.Int("facilityID", req.FacilityID), zap.Error(err))
		// The total stays frozen at its last value rather than flashing zero.
		tc.failed = true
	} else {
		tc.total = total
		tc.failed = false
	}
	tc.mu.Unlock()

	if tc.onUpdate != nil {
		tc.onUpdate()
	}
}

// State returns the last computed total and whether the last calculation failed.
func (tc *totalCalculator) State() (float64, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.total, tc.failed
}

func (tc *totalCalculator) Stop() {
	tc.debounce.Stop()
}
