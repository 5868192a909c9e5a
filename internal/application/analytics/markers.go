package analytics

import (
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/money"
)

// MapMarker is what the map renderer needs to place one property.
type MapMarker struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Status domain.PropertyStatus `json:"status"`
	Lat    float64               `json:"lat"`
	Lng    float64               `json:"lng"`
}

// ComputeMapMarkers returns markers for properties with a valid coordinate
// pair, in catalogue order. Properties without one are skipped.
func ComputeMapMarkers(snap domain.Snapshot) []MapMarker {
	out := []MapMarker{}
	for _, p := range snap.Properties {
		if !validCoordinates(p.Lat, p.Lng) {
			continue
		}
		out = append(out, MapMarker{ID: p.ID, Name: p.Name, Status: p.Status, Lat: *p.Lat, Lng: *p.Lng})
	}
	return out
}

func validCoordinates(lat, lng *float64) bool {
	if lat == nil || lng == nil || !money.Valid(*lat) || !money.Valid(*lng) {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}
