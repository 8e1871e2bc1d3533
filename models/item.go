package models

// ItemType distinguishes the two kinds of bookable units a facility offers.
type ItemType string

const (
	ItemTypeRoom    ItemType = "room"
	ItemTypePackage ItemType = "package"
)

// CustomerType selects the pricing sector applied to a reservation.
type CustomerType string

const (
	CustomerCorporate CustomerType = "corporate"
	CustomerPublic    CustomerType = "public"
	CustomerPrivate   CustomerType = "private"
)

// ValidCustomerType reports whether ct is one of the known pricing sectors.
func ValidCustomerType(ct CustomerType) bool {
	switch ct {
	case CustomerCorporate, CustomerPublic, CustomerPrivate:
		return true
	}
	return false
}

// BookingItem is one selected unit in a reservation. At most one entry exists
// per (ItemID, Type) pair; an entry with quantity 0 is removed rather than kept.
type BookingItem struct {
	ItemID   int      `json:"itemId"`
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`
}
