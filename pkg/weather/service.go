// Air-density and altitude corrections for blower-door flow.
//
// Fan flow rings are calibrated at the reference density of 0.075 lb/ft3.
// During a depressurization test the fan meters indoor air while the
// envelope leaks admit outdoor air, so the measured flow is corrected by
// sqrt(refDensity * indoorDensity) / outdoorDensity. The altitude factor is
// derived from the standard-atmosphere density ratio and is reported
// separately so an inspector can see how much of the adjustment came from
// weather versus elevation; the barometric input is the sea-level-referenced
// altimeter setting, not station pressure.
package weather

import (
	"math"

	"github.com/ratertools/air_compliance_engine/pkg/units"
)

const (
	ReferenceAirDensityLbFt3 = 0.075
	SeaLevelPressureInHg     = 29.921

	inHgToHpa    = 33.8639
	kgM3ToLbFt3  = 0.062428
	dryAirGasR   = 287.058 // J/(kg K)
	vaporGasR    = 461.495 // J/(kg K)
	feetToMeters = 0.3048

	// Standard-atmosphere lapse constants
	isaLapsePerMeter   = 2.25577e-5
	isaDensityExponent = 4.25588
)

// MoistAirDensityLbFt3 computes moist air density from dry-bulb temperature,
// relative humidity and barometric pressure.
func MoistAirDensityLbFt3(tempF, rhPercent, pressureInHg float64) float64 {
	tempC := units.FahrenheitToCelsius(tempF)
	tempK := tempC + 273.15
	if tempK <= 0 {
		return 0
	}

	rh := rhPercent
	if rh < 0 {
		rh = 0
	} else if rh > 100 {
		rh = 100
	}

	// Arden Buck saturation vapor pressure, hPa
	saturation := 6.1121 * math.Exp((18.678-tempC/234.5)*(tempC/(257.14+tempC)))
	vaporHpa := rh / 100 * saturation
	totalHpa := pressureInHg * inHgToHpa
	dryHpa := totalHpa - vaporHpa
	if dryHpa < 0 {
		dryHpa = 0
	}

	densityKgM3 := (dryHpa*100)/(dryAirGasR*tempK) + (vaporHpa*100)/(vaporGasR*tempK)
	return densityKgM3 * kgM3ToLbFt3
}

// DensityFactor returns the multiplicative weather correction for a
// depressurization test. Returns 1.0 when the inputs cannot produce a
// physical density, leaving the flow uncorrected rather than distorted.
func DensityFactor(outdoorF, indoorF, outdoorRhPercent, indoorRhPercent, pressureInHg float64) float64 {
	outdoorDensity := MoistAirDensityLbFt3(outdoorF, outdoorRhPercent, pressureInHg)
	indoorDensity := MoistAirDensityLbFt3(indoorF, indoorRhPercent, pressureInHg)
	if outdoorDensity <= 0 || indoorDensity <= 0 {
		return 1.0
	}
	return math.Sqrt(ReferenceAirDensityLbFt3*indoorDensity) / outdoorDensity
}

// AltitudeFactor corrects flow measured at elevation to the sea-level
// equivalent used by code bodies. 1.0 at sea level, rising with altitude.
func AltitudeFactor(altitudeFt float64) float64 {
	base := 1 - isaLapsePerMeter*altitudeFt*feetToMeters
	if base <= 0 {
		// Above the modeled atmosphere; no meaningful correction exists.
		return 1.0
	}
	densityRatio := math.Pow(base, isaDensityExponent)
	return math.Sqrt(1 / densityRatio)
}
