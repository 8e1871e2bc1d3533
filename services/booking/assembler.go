package booking

import (
	"strings"
	"time"

	"venuebook/models"
)

// AssembleReservation combines the session state into the wire payload for
// reservation creation. It is pure: validation failures are reported as a
// *ValidationError listing every missing or invalid field, and no network
// call is made here.
func AssembleReservation(
	facility models.Facility,
	items []models.BookingItem,
	dr models.DateRange,
	customerType models.CustomerType,
	total float64,
	paymentMethod string,
	details models.UserDetails,
) (models.ReservationPayload, error) {
	var missing []string

	if facility.FacilityID == 0 {
		missing = append(missing, "facilityId")
	}
	if len(items) == 0 {
		missing = append(missing, "items")
	}
	if !dr.Complete() {
		missing = append(missing, "dates")
	}
	if !models.ValidCustomerType(customerType) {
		missing = append(missing, "customerType")
	}
	if strings.TrimSpace(details.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(details.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(details.Email) == "" || !strings.Contains(details.Email, "@") {
		missing = append(missing, "email")
	}

	if len(missing) > 0 {
		return models.ReservationPayload{}, &ValidationError{Fields: missing}
	}

	return models.ReservationPayload{
		FacilityID:    facility.FacilityID,
		StartDate:     dr.Start.Format(time.RFC3339),
		EndDate:       dr.End.Format(time.RFC3339),
		Total:         total,
		CustomerType:  customerType,
		PaymentMethod: paymentMethod,
		Items:         items,
		UserDetails:   details,
	}, nil
}
