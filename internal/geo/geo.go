// Package geo resolves place names to coordinates through a cached geocoder
// and computes great-circle distances between them.
package geo

import "math"

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// meanEarthRadiusKm per IUGG.
const meanEarthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between a and b in kilometers,
// using the haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * meanEarthRadiusKm * math.Asin(math.Sqrt(h))
}
