// Package geo provides great-circle distance computation and display
// formatting for branch ranking. It has no external dependencies.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the Haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lon1 := radians(a.Lng)
	lat2 := radians(b.Lat)
	lon2 := radians(b.Lng)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for storage and display.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// FormatDistance renders a distance for display: meters below one kilometer,
// otherwise kilometers with one decimal.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d meters", int(km*1000))
	}
	return fmt.Sprintf("%.1f km", km)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
