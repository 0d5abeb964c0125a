// file: services/geofence_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go-checkin-gateway/models"
	"go-checkin-gateway/services"
)

// Test that the distance from a point to itself is zero
func TestDistance_SamePoint(t *testing.T) {
	points := [][2]float64{
		{25.0330, 121.5654},
		{0, 0},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range points {
		assert.Zero(t, services.Distance(p[0], p[1], p[0], p[1]), "distance from a point to itself must be 0")
	}
}

// Test that distance is symmetric in its arguments
func TestDistance_Symmetry(t *testing.T) {
	d1 := services.Distance(25.0330, 121.5654, 25.0478, 121.5319)
	d2 := services.Distance(25.0478, 121.5319, 25.0330, 121.5654)
	assert.InDelta(t, d1, d2, 1e-9, "haversine(A,B) must equal haversine(B,A)")
}

// Test a known distance: Taipei 101 to Taipei Main Station is roughly 3.8 km
func TestDistance_KnownPair(t *testing.T) {
	d := services.Distance(25.0330, 121.5654, 25.0478, 121.5319)
	assert.InDelta(t, 3800, d, 200, "Taipei 101 to Taipei Main Station should be ~3.8 km")
}

// Test that a small latitude offset gives the expected metre distance
func TestDistance_LatitudeOffset(t *testing.T) {
	// one degree of latitude is ~111.19 km on a 6371 km sphere
	d := services.Distance(25.0, 121.5, 25.001, 121.5)
	assert.InDelta(t, 111.19, d, 0.5)
}

func TestParsePosition(t *testing.T) {
	pos, err := services.ParsePosition("25.0330,121.5654")
	assert.NoError(t, err)
	assert.Equal(t, 25.0330, pos.Latitude)
	assert.Equal(t, 121.5654, pos.Longitude)

	// whitespace around the parts is tolerated
	pos, err = services.ParsePosition(" 25.0330 , 121.5654 ")
	assert.NoError(t, err)
	assert.Equal(t, 25.0330, pos.Latitude)

	_, err = services.ParsePosition("not-a-position")
	assert.Error(t, err)

	_, err = services.ParsePosition("25.0330")
	assert.Error(t, err)

	_, err = services.ParsePosition("25.0330,abc")
	assert.Error(t, err)
}

// ParsePosition(pos.String()) must round-trip: the backend parses the
// exact comma-joined format
func TestPosition_StringRoundTrip(t *testing.T) {
	original := services.Position{Latitude: 25.0330, Longitude: 121.5654}
	parsed, err := services.ParsePosition(original.String())
	assert.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func geofencedEvent(lat, lon, radius float64) *models.Event {
	return &models.Event{
		ID:                 "evt-1",
		LocationValidation: true,
		Latitude:           &lat,
		Longitude:          &lon,
		Radius:             &radius,
	}
}

// Test the inclusive boundary: distance exactly equal to the radius is in range
func TestWithinGeofence_InclusiveBoundary(t *testing.T) {
	pos := &services.Position{Latitude: 25.0340, Longitude: 121.5654}
	d := services.Distance(pos.Latitude, pos.Longitude, 25.0330, 121.5654)

	onBoundary := geofencedEvent(25.0330, 121.5654, d)
	assert.True(t, services.WithinGeofence(onBoundary, pos), "distance == radius must count as in range")

	justInside := geofencedEvent(25.0330, 121.5654, d+1)
	assert.True(t, services.WithinGeofence(justInside, pos))

	justOutside := geofencedEvent(25.0330, 121.5654, d-1)
	assert.False(t, services.WithinGeofence(justOutside, pos), "strictly beyond the radius must be out of range")
}

// Test that an unknown position blocks a geofenced event but not others
func TestWithinGeofence_UnknownPosition(t *testing.T) {
	fenced := geofencedEvent(25.0330, 121.5654, 100)
	assert.False(t, services.WithinGeofence(fenced, nil), "geofenced event with no position must be out of range")

	open := &models.Event{ID: "evt-2"}
	assert.True(t, services.WithinGeofence(open, nil), "events without a geofence ignore position")
}

// Test that a partially configured geofence counts as absent
func TestWithinGeofence_IncompleteFence(t *testing.T) {
	lat := 25.0330
	partial := &models.Event{ID: "evt-3", LocationValidation: true, Latitude: &lat}
	assert.True(t, services.WithinGeofence(partial, nil), "location fields are all-or-none")
}
