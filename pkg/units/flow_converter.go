package units

import "math"

// No negative values
func CfmToCubicMetersPerHour(cfm float64) float64 {
	if cfm < 0 {
		return 0
	}
	return cfm * 1.69901
}

func CubicMetersPerHourToCfm(m3h float64) float64 {
	if m3h < 0 {
		return 0
	}
	return m3h / 1.69901
}

// Convert Pascals to inches of water column for gauge display
func PascalsToInchesWC(pa float64) float64 {
	return pa * 0.00401463
}

func InchesWCToPascals(inwc float64) float64 {
	return inwc / 0.00401463
}

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func SquareFeetToSquareMeters(sqft float64) float64 {
	if sqft < 0 {
		return 0
	}
	return sqft * 0.09290304
}

func SquareMetersToSquareFeet(m2 float64) float64 {
	if m2 < 0 {
		return 0
	}
	return m2 / 0.09290304
}

// Round flow for storage - No negative values
func RoundCfm(cfm float64) uint32 {
	if cfm < 0 {
		return 0
	}
	return uint32(math.Round(cfm))
}
