package models

// FacilityItem is a catalogue entry for a bookable unit, as served by the
// reservation backend. DurationHours is zero for rooms; packages with a
// duration of 24 hours or more are "daily" packages, shorter ones "hourly".
type FacilityItem struct {
	ItemID        int      `json:"itemId"`
	Type          ItemType `json:"type"`
	Name          string   `json:"name"`
	DurationHours int      `json:"durationHours,omitempty"`
}

// IsDaily reports whether the item is a daily package.
func (fi FacilityItem) IsDaily() bool {
	return fi.Type == ItemTypePackage && fi.DurationHours >= 24
}

// IsHourly reports whether the item is an hourly package.
func (fi FacilityItem) IsHourly() bool {
	return fi.Type == ItemTypePackage && fi.DurationHours > 0 && fi.DurationHours < 24
}

// Facility is a bookable venue together with its item catalogue.
type Facility struct {
	FacilityID int            `json:"facilityId"`
	Name       string         `json:"name"`
	Location   string         `json:"location,omitempty"`
	Items      []FacilityItem `json:"items"`
}

// ItemByID looks up a catalogue entry by (type, id).
func (f Facility) ItemByID(itemType ItemType, itemID int) (FacilityItem, bool) {
	for _, it := range f.Items {
		if it.Type == itemType && it.ItemID == itemID {
			return it, true
		}
	}
	return FacilityItem{}, false
}
