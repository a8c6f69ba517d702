package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	stockholm  = Point{Lat: 59.3293, Lon: 18.0686}
	gothenburg = Point{Lat: 57.7089, Lon: 11.9746}
)

func TestHaversine_ZeroForIdenticalPoints(t *testing.T) {
	assert.Zero(t, Haversine(stockholm, stockholm))
}

func TestHaversine_Symmetric(t *testing.T) {
	assert.InDelta(t, Haversine(stockholm, gothenburg), Haversine(gothenburg, stockholm), 1e-9)
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Stockholm to Gothenburg is roughly 398 km great-circle.
	d := Haversine(stockholm, gothenburg)
	assert.InDelta(t, 398, d, 5)
}

func TestHaversine_SmallOffset(t *testing.T) {
	// 0.0899322 degrees of latitude is 10.0 km on a 6371 km sphere.
	p := Point{Lat: stockholm.Lat + 0.0899322, Lon: stockholm.Lon}
	assert.InDelta(t, 10.0, Haversine(stockholm, p), 0.01)
}

func TestBoundingBoxFor_SpansRadius(t *testing.T) {
	box := BoundingBoxFor(stockholm, 50)

	assert.InDelta(t, 50.0/111.32, box.LatMax-stockholm.Lat, 1e-9)
	assert.InDelta(t, 50.0/111.32, stockholm.Lat-box.LatMin, 1e-9)
	assert.Greater(t, box.LonMax-stockholm.Lon, box.LatMax-stockholm.Lat,
		"longitude span widens with latitude")

	// Every point on the circle boundary stays inside the box.
	north := Point{Lat: stockholm.Lat + 50.0/111.32, Lon: stockholm.Lon}
	assert.True(t, box.Contains(north))
	assert.True(t, box.Contains(stockholm))
}

func TestBoundingBoxFor_CornerExceedsRadius(t *testing.T) {
	// The box corner is inside the box but further than the radius from the
	// center by true distance; radius queries must trim it out.
	box := BoundingBoxFor(stockholm, 50)
	corner := Point{Lat: box.LatMax, Lon: box.LonMax}

	assert.True(t, box.Contains(corner))
	assert.Greater(t, Haversine(stockholm, corner), 50.0)
}

func TestBoundingBoxFor_NearPoleFallsBackToFullLongitude(t *testing.T) {
	box := BoundingBoxFor(Point{Lat: 90, Lon: 0}, 10)
	assert.InDelta(t, -180, box.LonMin, 1e-6)
	assert.InDelta(t, 180, box.LonMax, 1e-6)
}

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{LatMin: 59, LatMax: 60, LonMin: 17, LonMax: 19}

	assert.True(t, box.Contains(Point{Lat: 59.5, Lon: 18}))
	assert.False(t, box.Contains(Point{Lat: 58.9, Lon: 18}))
	assert.False(t, box.Contains(Point{Lat: 59.5, Lon: 19.1}))
}
