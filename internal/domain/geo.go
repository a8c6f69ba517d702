package domain

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerDegLat   = 111.32
)

// Point is a WGS-84 latitude/longitude coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is a lat/lon rectangle in the query form the position feed
// expects (lamin/lamax/lomin/lomax).
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether p lies inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax &&
		p.Lon >= b.LonMin && p.Lon <= b.LonMax
}

// BoundingBoxFor converts a circle to the smallest enclosing lat/lon box
// using a flat-Earth approximation: one degree of latitude is 111.32 km, and
// one degree of longitude is 111.32*cos(lat) km. The box overfetches the
// corners; callers trim to the exact circle with Haversine.
func BoundingBoxFor(center Point, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerDegLat

	lonDelta := 180.0
	if cosLat := math.Cos(center.Lat * math.Pi / 180); cosLat > 0 {
		if d := radiusKm / (kmPerDegLat * cosLat); d < 180 {
			lonDelta = d
		}
	}

	return BoundingBox{
		LatMin: center.Lat - latDelta,
		LatMax: center.Lat + latDelta,
		LonMin: center.Lon - lonDelta,
		LonMax: center.Lon + lonDelta,
	}
}

// Haversine returns the great-circle distance between two points in
// kilometres. Symmetric, and zero for identical points.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
