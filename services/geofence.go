// Package services: services/geofence.go
package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-checkin-gateway/models"
)

// earthRadiusMetres is the mean Earth radius used by the haversine formula.
const earthRadiusMetres = 6371000.0

// Position is a decoded attendee coordinate pair.
type Position struct {
	Latitude  float64
	Longitude float64
}

// String renders the position in the backend's wire format: the two
// coordinates comma-joined, "<lat>,<lon>". The backend parses exactly
// this shape, so no other encoding is acceptable.
func (p Position) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// ParsePosition decodes a "<lat>,<lon>" string.
func ParsePosition(s string) (Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("invalid geolocation %q: want \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Position{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Position{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	return Position{Latitude: lat, Longitude: lon}, nil
}

// Distance returns the great-circle distance between two coordinates in
// metres, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMetres * c
}

// WithinGeofence reports whether the attendee position is inside the
// event's geofence. The boundary is inclusive: a distance exactly equal
// to the radius counts as in range. Events without a complete geofence
// always pass.
func WithinGeofence(event *models.Event, pos *Position) bool {
	if !event.HasGeofence() {
		return true
	}
	if pos == nil {
		// position unknown: degraded, not an error
		return false
	}
	d := Distance(pos.Latitude, pos.Longitude, *event.Latitude, *event.Longitude)
	return d <= *event.Radius
}
