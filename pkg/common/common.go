// Package common holds shared numeric constants.
package common

import "math"

const (
	PiDiv180 = math.Pi / 180
	OneHalf  = 1.0 / 2.0  // 0.5
	OneTenth = 1.0 / 10.0 // 0.1
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * PiDiv180
}
