package vmath

import "math"

// LUTSize is the number of entries per full turn in the sine table
const (
	LUTSize = 1024
	LUTMask = LUTSize - 1
)

// SinLUT holds one full sine period
var SinLUT [LUTSize]float64

func init() {
	for i := 0; i < LUTSize; i++ {
		SinLUT[i] = math.Sin(2.0 * math.Pi * float64(i) / LUTSize)
	}
}

// Sin approximates sin of an angle given in turns (1.0 = 2π) by table lookup
func Sin(turns float64) float64 {
	return SinLUT[int(math.Floor(turns*LUTSize))&LUTMask]
}

// Cos approximates cos of an angle given in turns
func Cos(turns float64) float64 {
	return Sin(turns + 0.25)
}
