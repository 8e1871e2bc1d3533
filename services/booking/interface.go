package booking

import (
	"context"
	"time"

	"venuebook/backend"
	"venuebook/models"
)

// ReservationAPI is the slice of the upstream reservation backend the booking
// flow depends on. *backend.Client implements it.
type ReservationAPI interface {
	GetFacility(ctx context.Context, token string, facilityID int) (models.Facility, error)
	CheckAvailability(ctx context.Context, token string, in backend.AvailabilityRequest) (models.AvailabilityResult, error)
	CalculateTotal(ctx context.Context, token string, in backend.TotalRequest) (float64, error)
	CreateReservation(ctx context.Context, token string, payload models.ReservationPayload) (int, error)
	UploadDocument(ctx context.Context, token string, in backend.UploadDocumentRequest) error
}

// DraftStore persists booking session snapshots between the booking and
// confirmation steps of the flow.
type DraftStore interface {
	Save(ctx context.Context, snap models.BookingSnapshot) error
	Load(ctx context.Context, sessionID string) (models.BookingSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// FlowService defines the interface for managing stateful booking flow sessions.
type FlowService interface {
	InitiateSession(ctx context.Context, token, userID string, facilityID int, customerType models.CustomerType) (models.BookingSnapshot, error)
	GetSession(sessionID string) (models.BookingSnapshot, error)
	UpdateItems(sessionID string, itemType models.ItemType, itemID, quantity int) (models.BookingSnapshot, error)
	UpdateDates(sessionID string, start, end *time.Time) (models.BookingSnapshot, error)
	SetCustomerType(sessionID string, customerType models.CustomerType) (models.BookingSnapshot, error)
	Confirm(ctx context.Context, sessionID string, details models.UserDetails, paymentMethod string) (models.BookingSnapshot, error)
	UploadDocument(ctx context.Context, sessionID string, in backend.UploadDocumentRequest) error
	CancelSession(sessionID string) error
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	API      ReservationAPI
	Drafts   DraftStore
	Debounce time.Duration
	Now      func() time.Time

	registry sessionRegistry
}
