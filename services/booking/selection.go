package booking

import "venuebook/models"

// Selection tracks which rooms and packages are selected and in what
// quantity. At most one entry exists per (itemID, type) pair; setting a
// quantity to zero removes the entry. Mixing rooms and packages is a policy
// of the session orchestrating the selection, not of this type.
type Selection struct {
	items []models.BookingItem
}

// SetQuantity sets the quantity for one item. Quantity must be non-negative;
// zero removes the entry.
func (s *Selection) SetQuantity(itemType models.ItemType, itemID, quantity int) {
	for i, it := range s.items {
		if it.Type == itemType && it.ItemID == itemID {
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			} else {
				s.items[i].Quantity = quantity
			}
			return
		}
	}
	if quantity > 0 {
		s.items = append(s.items, models.BookingItem{ItemID: itemID, Type: itemType, Quantity: quantity})
	}
}

// ClearType removes every entry of the given type.
func (s *Selection) ClearType(itemType models.ItemType) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Type != itemType {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// Items returns a copy of the selected items.
func (s *Selection) Items() []models.BookingItem {
	out := make([]models.BookingItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) IsEmpty() bool { return len(s.items) == 0 }

func (s *Selection) HasType(itemType models.ItemType) bool {
	for _, it := range s.items {
		if it.Type == itemType {
			return true
		}
	}
	return false
}

func (s *Selection) HasRooms() bool    { return s.HasType(models.ItemTypeRoom) }
func (s *Selection) HasPackages() bool { return s.HasType(models.ItemTypePackage) }

// Composition summarizes the shape of the current selection against the
// facility catalogue. Date validation rules depend on it.
type Composition struct {
	HasRooms   bool
	OnlyDaily  bool
	OnlyHourly bool
	// MaxHourlyDuration is the longest hourly package duration selected, in
	// hours. The implied end of an hourly booking is start + this duration.
	MaxHourlyDuration int
}

// Classify derives the composition of sel using the facility catalogue to
// resolve package durations.
func Classify(sel *Selection, facility models.Facility) Composition {
	comp := Composition{}
	if sel.IsEmpty() {
		return comp
	}

	daily, hourly := 0, 0
	for _, it := range sel.Items() {
		if it.Type == models.ItemTypeRoom {
			comp.HasRooms = true
			continue
		}
		entry, ok := facility.ItemByID(it.Type, it.ItemID)
		if !ok {
			continue
		}
		if entry.IsDaily() {
			daily++
		} else {
			hourly++
			if entry.DurationHours > comp.MaxHourlyDuration {
				comp.MaxHourlyDuration = entry.DurationHours
			}
		}
	}

	if !comp.HasRooms {
		comp.OnlyDaily = daily > 0 && hourly == 0
		comp.OnlyHourly = hourly > 0 && daily == 0
	}
	return comp
}
