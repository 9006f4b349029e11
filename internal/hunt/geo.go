package hunt

import "math"

// Earth's mean radius in meters.
const earthRadius = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates in decimal degrees, using the spherical law of cosines over
// the polar angles (90° − latitude).
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	theta1 := radians(90 - lat1)
	theta2 := radians(90 - lat2)
	arg := math.Cos(theta1)*math.Cos(theta2) +
		math.Sin(theta1)*math.Sin(theta2)*math.Cos(radians(lng1-lng2))
	// Rounding can push the argument just outside acos' domain for points
	// that coincide or are antipodal.
	arg = math.Max(-1, math.Min(1, arg))
	return math.Acos(arg) * earthRadius
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
