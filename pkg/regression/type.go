package regression

import "errors"

const (
	// Readings below this house pressure are too noisy to fit.
	DefaultMinHousePressurePa = 10.0

	// Exponent assumed when only a single valid reading exists.
	AssumedExponent = 0.65

	// Physical plausibility window for the fitted flow exponent.
	ExponentLowerBound = 0.5
	ExponentUpperBound = 1.0
)

var ErrInsufficientData = errors.New("no valid readings to fit")

type Reading struct {
	HousePressurePa float64
	Cfm             float64
}

// Fit is the outcome of a power-law fit CFM = C * dP^n.
type Fit struct {
	FlowCoefficient    float64 `json:"flow_coefficient"`
	FlowExponent       float64 `json:"flow_exponent"`
	Correlation        float64 `json:"correlation"` // NaN on single-point fits
	ValidPointCount    int     `json:"valid_point_count"`
	ReducedConfidence  bool    `json:"reduced_confidence"`
	ExponentOutOfRange bool    `json:"exponent_out_of_range"`
}
