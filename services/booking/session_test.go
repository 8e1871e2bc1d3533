package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"venuebook/backend"
	"venuebook/models"
)

func newTestService(api *fakeAPI) *DefaultFlowService {
	return &DefaultFlowService{
		API:      api,
		Debounce: time.Millisecond,
		Now:      func() time.Time { return dateAt(2025, time.May, 20, 10, 0) },
	}
}

func startRoomSession(t *testing.T, svc *DefaultFlowService, api *fakeAPI) string {
	t.Helper()
	snap, err := svc.InitiateSession(context.Background(), "tok", "user1", 42, models.CustomerPrivate)
	if err != nil {
		t.Fatalf("InitiateSession: %v", err)
	}
	if snap.State != models.StateSelectingItems {
		t.Fatalf("initial state = %v", snap.State)
	}
	return snap.SessionID
}

func TestRoomBookingEndToEnd(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 12000,
		createID:    321,
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	snap, err := svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if snap.State != models.StateSelectingDates {
		t.Fatalf("state after item selection = %v", snap.State)
	}

	start := dateAt(2025, time.June, 1, 8, 0)
	end := dateAt(2025, time.June, 2, 8, 0)
	if _, err := svc.UpdateDates(id, &start, &end); err != nil {
		t.Fatalf("UpdateDates: %v", err)
	}

	ok := waitFor(2*time.Second, func() bool {
		snap, _ := svc.GetSession(id)
		return snap.State == models.StateReadyToReserve
	})
	if !ok {
		snap, _ := svc.GetSession(id)
		t.Fatalf("never reached ready state, stuck at %v", snap.State)
	}

	if n := api.availCallCount(); n != 1 {
		t.Fatalf("expected exactly one availability call, got %d", n)
	}
	call := api.lastAvailCall()
	if call.FacilityID != 42 {
		t.Fatalf("facilityID = %d", call.FacilityID)
	}
	if len(call.Items) != 1 || call.Items[0] != (models.BookingItem{ItemID: 7, Type: models.ItemTypeRoom, Quantity: 1}) {
		t.Fatalf("availability items = %+v", call.Items)
	}
	if !strings.HasPrefix(call.StartDate, "2025-06-01T08:00:00") || !strings.HasPrefix(call.EndDate, "2025-06-02T08:00:00") {
		t.Fatalf("availability dates = %s - %s", call.StartDate, call.EndDate)
	}

	snap, err = svc.Confirm(context.Background(), id, models.UserDetails{
		FirstName: "Nimal",
		LastName:  "Perera",
		Email:     "nimal@example.com",
	}, "cash")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if snap.State != models.StateSubmitted || snap.ReservationID != 321 {
		t.Fatalf("post-confirm snapshot: state=%v reservationID=%d", snap.State, snap.ReservationID)
	}

	payload := api.createCalls[0]
	if payload.FacilityID != 42 || payload.Total != 12000 || payload.CustomerType != models.CustomerPrivate {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.Items) != 1 || payload.Items[0].ItemID != 7 {
		t.Fatalf("payload items = %+v", payload.Items)
	}
	if !strings.HasPrefix(payload.StartDate, "2025-06-01T08:00:00") {
		t.Fatalf("payload start = %s", payload.StartDate)
	}
}

func TestHourlyPackageImpliedEnd(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 2500,
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	if _, err := svc.UpdateItems(id, models.ItemTypePackage, 3, 1); err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	start := dateAt(2025, time.June, 1, 10, 0)
	if _, err := svc.UpdateDates(id, &start, nil); err != nil {
		t.Fatalf("UpdateDates: %v", err)
	}

	if !waitFor(2*time.Second, func() bool { return api.totalCallCount() == 1 }) {
		t.Fatal("total calculation never issued")
	}
	call := api.lastTotalCall()
	if !strings.HasPrefix(call.StartDate, "2025-06-01T10:00:00") {
		t.Fatalf("total start = %s", call.StartDate)
	}
	// A 4-hour package implies an end derived from its duration.
	if !strings.HasPrefix(call.EndDate, "2025-06-01T14:00:00") {
		t.Fatalf("total end = %s, want implied 14:00", call.EndDate)
	}
}

func TestEmptySelectionResets(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 12000,
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	start := dateAt(2025, time.June, 1, 8, 0)
	end := dateAt(2025, time.June, 2, 8, 0)
	svc.UpdateDates(id, &start, &end)
	if !waitFor(2*time.Second, func() bool {
		snap, _ := svc.GetSession(id)
		return snap.State == models.StateReadyToReserve
	}) {
		t.Fatal("never reached ready state")
	}
	availCalls, totalCalls := api.availCallCount(), api.totalCallCount()

	snap, err := svc.UpdateItems(id, models.ItemTypeRoom, 7, 0)
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if len(snap.Items) != 0 || snap.State != models.StateSelectingItems {
		t.Fatalf("selection not cleared: %+v", snap)
	}
	if snap.Total != 0 {
		t.Fatalf("total not reset, got %v", snap.Total)
	}
	if snap.Availability != (models.AvailabilityResult{}) {
		t.Fatalf("availability not reset: %+v", snap.Availability)
	}

	time.Sleep(20 * time.Millisecond)
	if api.availCallCount() != availCalls || api.totalCallCount() != totalCalls {
		t.Fatal("reset must not issue network calls")
	}
}

func TestRoomsAndPackagesAreMutuallyExclusive(t *testing.T) {
	api := &fakeAPI{facility: testFacility()}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	svc.UpdateItems(id, models.ItemTypePackage, 3, 1)
	snap, err := svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Type != models.ItemTypeRoom {
		t.Fatalf("selecting a room must clear packages, got %+v", snap.Items)
	}

	snap, _ = svc.UpdateItems(id, models.ItemTypePackage, 3, 2)
	if len(snap.Items) != 1 || snap.Items[0].Type != models.ItemTypePackage {
		t.Fatalf("selecting a package must clear rooms, got %+v", snap.Items)
	}
}

func TestCustomerTypeChangeKeepsAvailability(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 12000,
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	start := dateAt(2025, time.June, 1, 8, 0)
	end := dateAt(2025, time.June, 2, 8, 0)
	svc.UpdateDates(id, &start, &end)
	if !waitFor(2*time.Second, func() bool {
		snap, _ := svc.GetSession(id)
		return snap.State == models.StateReadyToReserve
	}) {
		t.Fatal("never reached ready state")
	}
	availCalls := api.availCallCount()
	totalCalls := api.totalCallCount()

	// Pricing sector changes repricing inputs only, so the availability
	// verdict must stay fresh and the flow must stay reservable.
	snap, err := svc.SetCustomerType(id, models.CustomerCorporate)
	if err != nil {
		t.Fatalf("SetCustomerType: %v", err)
	}
	if snap.State != models.StateReadyToReserve {
		t.Fatalf("state after customer-type change = %v, want ready", snap.State)
	}

	if !waitFor(2*time.Second, func() bool { return api.totalCallCount() == totalCalls+1 }) {
		t.Fatal("customer-type change never re-priced")
	}
	if n := api.availCallCount(); n != availCalls {
		t.Fatalf("customer-type change must not re-check availability: calls before=%d after=%d", availCalls, n)
	}
}

func TestConfirmBeforeReadyRejected(t *testing.T) {
	api := &fakeAPI{facility: testFacility()}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	_, err := svc.Confirm(context.Background(), id, models.UserDetails{}, "")
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestSubmissionFailureAllowsRetry(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 12000,
		createErr:   errors.New("backend rejected"),
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	start := dateAt(2025, time.June, 1, 8, 0)
	end := dateAt(2025, time.June, 2, 8, 0)
	svc.UpdateDates(id, &start, &end)
	if !waitFor(2*time.Second, func() bool {
		snap, _ := svc.GetSession(id)
		return snap.State == models.StateReadyToReserve
	}) {
		t.Fatal("never reached ready state")
	}

	details := models.UserDetails{FirstName: "Nimal", LastName: "Perera", Email: "nimal@example.com"}

	snap, err := svc.Confirm(context.Background(), id, details, "cash")
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if snap.State != models.StateSubmissionFailed {
		t.Fatalf("state after failure = %v", snap.State)
	}

	api.mu.Lock()
	api.createErr = nil
	api.createID = 99
	api.mu.Unlock()

	snap, err = svc.Confirm(context.Background(), id, details, "cash")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if snap.State != models.StateSubmitted || snap.ReservationID != 99 {
		t.Fatalf("retry snapshot: %+v", snap)
	}
}

func TestUploadDocumentUsesSessionReservation(t *testing.T) {
	api := &fakeAPI{
		facility:    testFacility(),
		availResult: models.AvailabilityResult{IsAvailable: true},
		totalResult: 12000,
		createID:    321,
	}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	svc.UpdateItems(id, models.ItemTypeRoom, 7, 1)
	start := dateAt(2025, time.June, 1, 8, 0)
	end := dateAt(2025, time.June, 2, 8, 0)
	svc.UpdateDates(id, &start, &end)
	if !waitFor(2*time.Second, func() bool {
		snap, _ := svc.GetSession(id)
		return snap.State == models.StateReadyToReserve
	}) {
		t.Fatal("never reached ready state")
	}
	details := models.UserDetails{FirstName: "Nimal", LastName: "Perera", Email: "nimal@example.com"}
	if _, err := svc.Confirm(context.Background(), id, details, "cash"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	err := svc.UploadDocument(context.Background(), id, backend.UploadDocumentRequest{
		DocumentType: models.DocumentBankReceipt,
		FileName:     "receipt.pdf",
		File:         []byte("pdf"),
	})
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if len(api.uploadCalls) != 1 || api.uploadCalls[0].ReservationID != 321 {
		t.Fatalf("upload calls = %+v", api.uploadCalls)
	}
}

func TestCancelSession(t *testing.T) {
	api := &fakeAPI{facility: testFacility()}
	svc := newTestService(api)
	id := startRoomSession(t, svc, api)

	if err := svc.CancelSession(id); err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	if _, err := svc.GetSession(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
