// Fits the blower-door power law CFM = C * (dP)^n to multipoint readings.
// Depressurization tests report negative house pressures; only the magnitude
// matters for the fit.
package regression

import "math"

func Analyze(readings []Reading) (*Fit, error) {
	return AnalyzeWithMinPressure(readings, DefaultMinHousePressurePa)
}

func AnalyzeWithMinPressure(readings []Reading, minPressurePa float64) (*Fit, error) {
	valid := filterValid(readings, minPressurePa)
	if len(valid) == 0 {
		return nil, ErrInsufficientData
	}
	if len(valid) == 1 {
		return singlePointFit(valid[0], 1), nil
	}

	// Least squares on ln(dP) vs ln(CFM)
	n := float64(len(valid))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for _, r := range valid {
		x := math.Log(math.Abs(r.HousePressurePa))
		y := math.Log(r.Cfm)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denomX := n*sumXX - sumX*sumX
	if denomX <= 1e-12 {
		// All readings at effectively one pressure station; a slope cannot
		// be resolved, so treat it like a single-point test.
		return singlePointFit(valid[0], len(valid)), nil
	}

	exponent := (n*sumXY - sumX*sumY) / denomX
	coefficient := math.Exp((sumY - exponent*sumX) / n)

	correlation := math.NaN()
	denomY := n*sumYY - sumY*sumY
	if denomY > 1e-12 {
		correlation = (n*sumXY - sumX*sumY) / math.Sqrt(denomX*denomY)
	}

	return &Fit{
		FlowCoefficient:    coefficient,
		FlowExponent:       exponent,
		Correlation:        correlation,
		ValidPointCount:    len(valid),
		ExponentOutOfRange: exponent < ExponentLowerBound || exponent > ExponentUpperBound,
	}, nil
}

// FlowAt extrapolates the fitted curve to the given house pressure.
func (f *Fit) FlowAt(pressurePa float64) float64 {
	if pressurePa <= 0 {
		return 0
	}
	return f.FlowCoefficient * math.Pow(pressurePa, f.FlowExponent)
}

func filterValid(readings []Reading, minPressurePa float64) []Reading {
	valid := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if math.Abs(r.HousePressurePa) < minPressurePa {
			continue
		}
		if r.Cfm <= 0 {
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

// singlePointFit derives a curve from one reading using the assumed exponent.
// This is the degraded-but-usable path for single-point field tests.
func singlePointFit(r Reading, pointCount int) *Fit {
	dp := math.Abs(r.HousePressurePa)
	return &Fit{
		FlowCoefficient:   r.Cfm / math.Pow(dp, AssumedExponent),
		FlowExponent:      AssumedExponent,
		Correlation:       math.NaN(),
		ValidPointCount:   pointCount,
		ReducedConfidence: true,
	}
}
