// Envelope leakage evaluation: multipoint regression, weather and altitude
// correction, ACH50 against the configured code limit.
package blowerdoor

import (
	"fmt"
	"math"

	"github.com/ratertools/air_compliance_engine/pkg/codelimits"
	"github.com/ratertools/air_compliance_engine/pkg/regression"
	"github.com/ratertools/air_compliance_engine/pkg/units"
	"github.com/ratertools/air_compliance_engine/pkg/validation"
	"github.com/ratertools/air_compliance_engine/pkg/weather"
)

const referencePressurePa = 50.0

// Evaluate runs the full envelope pipeline. It is stateless; identical
// inputs always produce identical results.
func Evaluate(test *Test, limits *codelimits.Table) (*Result, error) {
	if err := validation.Struct(test); err != nil {
		return nil, err
	}

	// Resolve the limit before doing any arithmetic so a missing code-cycle
	// entry fails loudly instead of yielding a verdict against nothing.
	limit, err := limits.LookupACH50(test.CodeYear, test.ClimateZone)
	if err != nil {
		return nil, err
	}

	points := make([]regression.Reading, 0, len(test.Readings))
	for _, r := range test.Readings {
		points = append(points, regression.Reading{
			HousePressurePa: r.HousePressurePa,
			Cfm:             r.Cfm,
		})
	}

	fit, err := regression.Analyze(points)
	if err != nil {
		return nil, fmt.Errorf("blower door regression: %w", err)
	}

	cfm50 := fit.FlowAt(referencePressurePa)
	weatherFactor := weather.DensityFactor(
		test.Weather.OutdoorTempF,
		test.Weather.IndoorTempF,
		test.Weather.OutdoorRhPercent,
		test.Weather.IndoorRhPercent,
		test.Weather.BarometricInHg,
	)
	altitudeFactor := weather.AltitudeFactor(test.Weather.AltitudeFt)
	correctedCfm50 := cfm50 * weatherFactor * altitudeFactor

	ach50 := correctedCfm50 * 60 / test.Setup.HouseVolumeFt3

	status := StatusNonCompliant
	if ach50 <= limit {
		status = StatusCompliant
	}

	var correlation *float64
	if !math.IsNaN(fit.Correlation) {
		c := fit.Correlation
		correlation = &c
	}

	return &Result{
		FlowCoefficient:       fit.FlowCoefficient,
		FlowExponent:          fit.FlowExponent,
		Correlation:           correlation,
		ValidPointCount:       fit.ValidPointCount,
		Cfm50:                 cfm50,
		WeatherCorrectedCfm50: correctedCfm50,
		WeatherCorrectedM3h:   units.CfmToCubicMetersPerHour(correctedCfm50),
		WeatherFactor:         weatherFactor,
		AltitudeFactor:        altitudeFactor,
		Ach50:                 ach50,
		CodeLimitAch50:        limit,
		ComplianceStatus:      status,
		ReducedConfidence:     fit.ReducedConfidence,
		ExponentOutOfRange:    fit.ExponentOutOfRange,
	}, nil
}
