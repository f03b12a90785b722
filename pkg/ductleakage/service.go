// Duct leakage evaluation at 25 Pa: leakage fractions of system airflow
// for the total test and the leakage-to-outside test, each against its own
// code-year limit.
package ductleakage

import (
	"github.com/ratertools/air_compliance_engine/pkg/codelimits"
	"github.com/ratertools/air_compliance_engine/pkg/validation"
)

func Evaluate(test *Test, limits *codelimits.Table) (*Result, error) {
	if err := validation.Struct(test); err != nil {
		return nil, err
	}

	limit, err := limits.LookupDuct(test.CodeYear)
	if err != nil {
		return nil, err
	}

	totalPercent := test.Cfm25Total / test.SystemAirflowCfm * 100
	outsidePercent := test.Cfm25Outside / test.SystemAirflowCfm * 100

	return &Result{
		TotalPercentOfFlow:   totalPercent,
		OutsidePercentOfFlow: outsidePercent,
		TotalPer100Sqft:      test.Cfm25Total / test.ConditionedAreaSqft * 100,
		OutsidePer100Sqft:    test.Cfm25Outside / test.ConditionedAreaSqft * 100,
		LimitTotalPercent:    limit.MaxTotalPercentOfFlow,
		LimitOutsidePercent:  limit.MaxOutsidePercentOfFlow,
		MeetsCodeTDL:         totalPercent <= limit.MaxTotalPercentOfFlow,
		MeetsCodeDLO:         outsidePercent <= limit.MaxOutsidePercentOfFlow,
	}, nil
}
