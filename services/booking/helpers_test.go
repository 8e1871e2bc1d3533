package booking

import (
	"context"
	"sync"
	"time"

	"venuebook/backend"
	"venuebook/models"
)

// fakeAPI is an in-memory ReservationAPI recording every call. Optional
// hooks let a test block or script individual responses.
type fakeAPI struct {
	mu sync.Mutex

	facility    models.Facility
	facilityErr error

	availCalls  []backend.AvailabilityRequest
	availResult models.AvailabilityResult
	availErr    error
	availHook   func(backend.AvailabilityRequest) (models.AvailabilityResult, error)

	totalCalls  []backend.TotalRequest
	totalResult float64
	totalErr    error

	createCalls []models.ReservationPayload
	createID    int
	createErr   error

	uploadCalls []backend.UploadDocumentRequest
}

func (f *fakeAPI) GetFacility(ctx context.Context, token string, facilityID int) (models.Facility, error) {
	return f.facility, f.facilityErr
}

func (f *fakeAPI) CheckAvailability(ctx context.Context, token string, in backend.AvailabilityRequest) (models.AvailabilityResult, error) {
	f.mu.Lock()
	f.availCalls = append(f.availCalls, in)
	hook := f.availHook
	result, err := f.availResult, f.availErr
	f.mu.Unlock()

	if hook != nil {
		return hook(in)
	}
	return result, err
}

func (f *fakeAPI) CalculateTotal(ctx context.Context, token string, in backend.TotalRequest) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalCalls = append(f.totalCalls, in)
	return f.totalResult, f.totalErr
}

func (f *fakeAPI) CreateReservation(ctx context.Context, token string, payload models.ReservationPayload) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, payload)
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakeAPI) UploadDocument(ctx context.Context, token string, in backend.UploadDocumentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls = append(f.uploadCalls, in)
	return nil
}

func (f *fakeAPI) availCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.availCalls)
}

func (f *fakeAPI) totalCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.totalCalls)
}

func (f *fakeAPI) lastAvailCall() backend.AvailabilityRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availCalls[len(f.availCalls)-1]
}

func (f *fakeAPI) lastTotalCall() backend.TotalRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalCalls[len(f.totalCalls)-1]
}

// testFacility mirrors the catalogue used across the flow tests: one room and
// a four-hour package.
func testFacility() models.Facility {
	return models.Facility{
		FacilityID: 42,
		Name:       "Lakeside Center",
		Items: []models.FacilityItem{
			{ItemID: 7, Type: models.ItemTypeRoom, Name: "Standard Room"},
			{ItemID: 3, Type: models.ItemTypePackage, Name: "Half-Day Package", DurationHours: 4},
			{ItemID: 9, Type: models.ItemTypePackage, Name: "Full-Day Package", DurationHours: 24},
		},
	}
}

func dateAt(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
