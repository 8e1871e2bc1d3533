// File: services/booking/service.go
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"venuebook/backend"
	"venuebook/models"
	"venuebook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*flowSession
}

func (r *sessionRegistry) add(s *flowSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions == nil {
		r.sessions = make(map[string]*flowSession)
	}
	r.sessions[s.id] = s
}

func (r *sessionRegistry) get(id string) (*flowSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *sessionRegistry) remove(id string) (*flowSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (svc *DefaultFlowService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// InitiateSession creates a new booking flow session for one facility,
// fetching its catalogue so package durations are known for date derivation,
// and persists the initial draft snapshot.
func (svc *DefaultFlowService) InitiateSession(ctx context.Context, token, userID string, facilityID int, customerType models.CustomerType) (models.BookingSnapshot, error) {
	if facilityID == 0 {
		return models.BookingSnapshot{}, &ValidationError{Fields: []string{"facilityId"}}
	}
	if customerType == "" {
		customerType = models.CustomerPrivate
	}
	if !models.ValidCustomerType(customerType) {
		return models.BookingSnapshot{}, &ValidationError{Fields: []string{"customerType"}}
	}

	facility, err := svc.API.GetFacility(ctx, token, facilityID)
	if err != nil {
		return models.BookingSnapshot{}, fmt.Errorf("failed to fetch facility %d: %w", facilityID, err)
	}

	sessionID := uuid.New().String()
	session := newFlowSession(sessionID, userID, token, facility, customerType, svc.API, svc.Debounce, svc.now, svc.persistDraft)
	svc.registry.add(session)

	snap := session.Snapshot()
	svc.persistDraft(snap)
	return snap, nil
}

// GetSession returns the current snapshot of a live session.
func (svc *DefaultFlowService) GetSession(sessionID string) (models.BookingSnapshot, error) {
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// UpdateItems sets the quantity for one item in the session's selection.
func (svc *DefaultFlowService) UpdateItems(sessionID string, itemType models.ItemType, itemID, quantity int) (models.BookingSnapshot, error) {
	if quantity < 0 {
		return models.BookingSnapshot{}, &ValidationError{Fields: []string{"quantity"}}
	}
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}
	return session.SetQuantity(itemType, itemID, quantity)
}

// UpdateDates sets the session's start and/or end date.
func (svc *DefaultFlowService) UpdateDates(sessionID string, start, end *time.Time) (models.BookingSnapshot, error) {
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}
	return session.SetDates(start, end)
}

// SetCustomerType switches the session's pricing sector.
func (svc *DefaultFlowService) SetCustomerType(sessionID string, customerType models.CustomerType) (models.BookingSnapshot, error) {
	if !models.ValidCustomerType(customerType) {
		return models.BookingSnapshot{}, &ValidationError{Fields: []string{"customerType"}}
	}
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}
	return session.SetCustomerType(customerType)
}

// Confirm submits the assembled reservation to the backend. The draft
// snapshot is deleted once submission succeeds.
func (svc *DefaultFlowService) Confirm(ctx context.Context, sessionID string, details models.UserDetails, paymentMethod string) (models.BookingSnapshot, error) {
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return models.BookingSnapshot{}, ErrSessionNotFound
	}

	snap, err := session.Confirm(ctx, svc.API, details, paymentMethod)
	if err != nil {
		return snap, err
	}

	if svc.Drafts != nil {
		if derr := svc.Drafts.Delete(ctx, sessionID); derr != nil {
			utils.GetLogger().Warn("failed to delete booking draft", zap.String("sessionID", sessionID), zap.Error(derr))
		}
	}
	return snap, nil
}

// UploadDocument forwards a reservation document to the backend. When the
// request names no reservation or payment, the session's own reservation id
// is used.
func (svc *DefaultFlowService) UploadDocument(ctx context.Context, sessionID string, in backend.UploadDocumentRequest) error {
	session, ok := svc.registry.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if in.ReservationID == 0 && in.PaymentID == 0 {
		snap := session.Snapshot()
		if snap.ReservationID == 0 {
			return &ValidationError{Fields: []string{"reservationId"}}
		}
		in.ReservationID = snap.ReservationID
	}
	return svc.API.UploadDocument(ctx, session.token, in)
}

// CancelSession tears the session down and discards its draft.
func (svc *DefaultFlowService) CancelSession(sessionID string) error {
	session, ok := svc.registry.remove(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	session.Close()

	if svc.Drafts != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := svc.Drafts.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to delete booking draft: %w", err)
		}
	}
	return nil
}

// persistDraft saves a snapshot to the draft store off the request path.
func (svc *DefaultFlowService) persistDraft(snap models.BookingSnapshot) {
	if svc.Drafts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := svc.Drafts.Save(ctx, snap); err != nil {
			utils.GetLogger().Warn("failed to persist booking draft", zap.String("sessionID", snap.SessionID), zap.Error(err))
		}
	}()
}
