package booking

import (
	"encoding/json"
	"sort"
	"time"

	"venuebook/models"
)

// evalInput is the canonical form of the tuple driving availability and total
// evaluation. Its serialization identifies a request: responses whose key no
// longer matches the latest issued key are stale and must be discarded.
type evalInput struct {
	FacilityID   int                  `json:"facilityId"`
	CustomerType models.CustomerType  `json:"customerType,omitempty"`
	StartDate    string               `json:"startDate"`
	EndDate      string               `json:"endDate"`
	Items        []models.BookingItem `json:"items"`
}

func canonicalKey(facilityID int, customerType models.CustomerType, dr models.DateRange, items []models.BookingItem) string {
	sorted := make([]models.BookingItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type < sorted[j].Type
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	in := evalInput{
		FacilityID:   facilityID,
		CustomerType: customerType,
		StartDate:    formatDate(dr.Start),
		EndDate:      formatDate(dr.End),
		Items:        sorted,
	}
	data, _ := json.Marshal(in)
	return string(data)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
