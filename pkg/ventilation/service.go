// ASHRAE 62.2 whole-house ventilation evaluation: required rate, local
// exhaust checks, mechanical system credit and the aggregate verdict.
package ventilation

import (
	"fmt"

	"github.com/ratertools/air_compliance_engine/pkg/validation"
)

// RequiredRate is the ASHRAE 62.2 whole-house target in CFM.
func RequiredRate(floorAreaSqft float64, bedrooms int) float64 {
	return 0.03*floorAreaSqft + 7.5*float64(bedrooms+1)
}

// AdjustedRequired subtracts the infiltration credit, clamped at zero. Very
// tight homes can carry a credit larger than the target; the requirement
// never goes negative.
func AdjustedRequired(requiredCfm, infiltrationCreditCfm float64) float64 {
	adjusted := requiredCfm - infiltrationCreditCfm
	if adjusted < 0 {
		return 0
	}
	return adjusted
}

// MechanicalContribution is the airflow credit of the mechanical system.
// Balanced systems are credited by their limiting leg, never the sum, since
// summing would double-count recovered air.
func MechanicalContribution(m MechanicalSystem) float64 {
	switch m.Type {
	case MechanicalBalancedHRV, MechanicalBalancedERV:
		if m.SupplyCfm >= m.ExhaustCfm {
			return m.SupplyCfm
		}
		return m.ExhaustCfm
	case MechanicalSupplyOnly:
		return m.SupplyCfm
	case MechanicalExhaustOnly:
		return m.ExhaustCfm
	default:
		return 0
	}
}

func evaluateLocal(component string, path LocalExhaust, intermittentMin, continuousMin float64) ComponentCompliance {
	record := ComponentCompliance{
		Component:   component,
		Type:        path.Type,
		ProvidedCfm: path.MeasuredCfm,
	}

	switch path.Type {
	case ExhaustIntermittent:
		record.RequiredCfm = intermittentMin
	case ExhaustContinuous:
		record.RequiredCfm = continuousMin
	default:
		// No exhaust intended for this path; excluded, not failed.
		record.Excluded = true
		record.Compliant = true
		record.ProvidedCfm = 0
		return record
	}

	record.Compliant = path.MeasuredCfm >= record.RequiredCfm
	return record
}

// Evaluate runs the whole-house ventilation check. A house can pass every
// local check and still fail overall when the summed airflow misses the
// adjusted ASHRAE target.
func Evaluate(test *Test) (*Result, error) {
	if err := validation.Struct(test); err != nil {
		return nil, err
	}

	required := RequiredRate(test.FloorAreaSqft, test.Bedrooms)
	adjusted := AdjustedRequired(required, test.InfiltrationCreditCfm)

	components := make([]ComponentCompliance, 0, 1+len(test.Bathrooms))
	components = append(components, evaluateLocal(
		"kitchen", test.Kitchen, KitchenIntermittentMinCfm, KitchenContinuousMinCfm))
	for i, bath := range test.Bathrooms {
		components = append(components, evaluateLocal(
			fmt.Sprintf("bathroom_%d", i+1), bath,
			BathroomIntermittentMinCfm, BathroomContinuousMinCfm))
	}

	mechanical := MechanicalContribution(test.Mechanical)

	total := mechanical
	allLocalCompliant := true
	for _, c := range components {
		if c.Excluded {
			continue
		}
		total += c.ProvidedCfm
		if !c.Compliant {
			allLocalCompliant = false
		}
	}

	return &Result{
		RequiredRateCfm:           required,
		AdjustedRequiredCfm:       adjusted,
		TotalProvidedCfm:          total,
		MechanicalContributionCfm: mechanical,
		Components:                components,
		OverallCompliant:          allLocalCompliant && total >= adjusted,
	}, nil
}
