package backend

import (
	"fmt"

	"venuebook/models"
)

// AvailabilityRequest is the body for POST /Reservation/checkAvailability.
type AvailabilityRequest struct {
	FacilityID int                  `json:"facilityId"`
	StartDate  string               `json:"startDate"`
	EndDate    string               `json:"endDate"`
	Items      []models.BookingItem `json:"items"`
}

// TotalRequest is the inner dto for POST /Reservation/calculateTotal.
type TotalRequest struct {
	FacilityID    int                  `json:"facilityId"`
	CustomerType  models.CustomerType  `json:"customerType"`
	StartDate     string               `json:"startDate"`
	EndDate       string               `json:"endDate"`
	SelectedItems []models.BookingItem `json:"selectedItems"`
}

type calculateTotalBody struct {
	CalculateTotalDto TotalRequest `json:"calculateTotalDto"`
}

type totalEnvelope struct {
	Value struct {
		Total float64 `json:"total"`
	} `json:"value"`
}

type reservationEnvelope struct {
	IsSuccess bool `json:"isSuccess"`
	Value     struct {
		ReservationID int `json:"reservationId"`
	} `json:"value"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadDocumentRequest carries one document to the backend upload endpoint.
// Exactly one of ReservationID or PaymentID should be set.
type UploadDocumentRequest struct {
	ReservationID int
	PaymentID     int
	DocumentType  models.DocumentType
	FileName      string
	File          []byte
}

// APIError is returned for non-2xx backend responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend request failed: %d: %s", e.StatusCode, e.Message)
}
