package models

// UserDetails identifies the customer submitting a reservation.
type UserDetails struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
}

// ReservationPayload is the wire body for the backend createReservation call.
type ReservationPayload struct {
	FacilityID    int           `json:"facilityId"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	Total         float64       `json:"total"`
	CustomerType  CustomerType  `json:"customerType"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Items         []BookingItem `json:"items"`
	UserDetails   UserDetails   `json:"userDetails"`
}

// DocumentType labels an uploaded reservation document.
type DocumentType string

const (
	DocumentApprovalLetter DocumentType = "ApprovalDocument"
	DocumentBankReceipt    DocumentType = "BankReceipt"
)
