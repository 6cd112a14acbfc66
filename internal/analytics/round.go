package analytics

import "math"

// roundTenth rounds half-up to one decimal place.
func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func minutesToHours(minutes int) float64 {
	return float64(minutes) / 60
}
