package ductleakage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratertools/air_compliance_engine/pkg/codelimits"
	"github.com/ratertools/air_compliance_engine/pkg/validation"
)

func testLimits(t *testing.T) *codelimits.Table {
	t.Helper()
	table, err := codelimits.LoadEmbedded()
	require.NoError(t, err)
	return table
}

func TestEvaluatePercentages(t *testing.T) {
	result, err := Evaluate(&Test{
		SystemAirflowCfm:    1200,
		ConditionedAreaSqft: 2000,
		Cfm25Total:          96,
		Cfm25Outside:        36,
		CodeYear:            2009,
	}, testLimits(t))
	require.NoError(t, err)

	assert.InDelta(t, 8.0, result.TotalPercentOfFlow, 1e-9)
	assert.InDelta(t, 3.0, result.OutsidePercentOfFlow, 1e-9)
	assert.InDelta(t, 4.8, result.TotalPer100Sqft, 1e-9)
	assert.InDelta(t, 1.8, result.OutsidePer100Sqft, 1e-9)
	assert.True(t, result.MeetsCodeTDL)  // 8% <= 12%
	assert.True(t, result.MeetsCodeDLO)  // 3% <= 10%
}

func TestEvaluateIndependentVerdicts(t *testing.T) {
	tests := []struct {
		name         string
		cfm25Total   float64
		cfm25Outside float64
		wantTDL      bool
		wantDLO      bool
	}{
		{"both pass", 40, 25, true, true},
		{"total fails outside passes", 80, 25, false, true},
		{"total passes outside fails", 40, 45, true, false},
		{"both fail", 80, 45, false, false},
	}

	// 2015 limits: total 4%, outside 3% of 1000 CFM system airflow.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(&Test{
				SystemAirflowCfm:    1000,
				ConditionedAreaSqft: 1800,
				Cfm25Total:          tt.cfm25Total,
				Cfm25Outside:        tt.cfm25Outside,
				CodeYear:            2015,
			}, testLimits(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTDL, result.MeetsCodeTDL)
			assert.Equal(t, tt.wantDLO, result.MeetsCodeDLO)
		})
	}
}

func TestEvaluateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Test)
	}{
		{"zero system airflow", func(tt *Test) { tt.SystemAirflowCfm = 0 }},
		{"negative system airflow", func(tt *Test) { tt.SystemAirflowCfm = -500 }},
		{"zero conditioned area", func(tt *Test) { tt.ConditionedAreaSqft = 0 }},
		{"negative total leakage", func(tt *Test) { tt.Cfm25Total = -1 }},
		{"negative outside leakage", func(tt *Test) { tt.Cfm25Outside = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test := &Test{
				SystemAirflowCfm:    1000,
				ConditionedAreaSqft: 1800,
				Cfm25Total:          40,
				Cfm25Outside:        25,
				CodeYear:            2018,
			}
			tt.mutate(test)
			_, err := Evaluate(test, testLimits(t))
			require.Error(t, err)
			assert.True(t, validation.IsValidationError(err), "want validation error, got %v", err)
		})
	}
}

func TestEvaluateMissingCodeLimit(t *testing.T) {
	_, err := Evaluate(&Test{
		SystemAirflowCfm:    1000,
		ConditionedAreaSqft: 1800,
		Cfm25Total:          40,
		Cfm25Outside:        25,
		CodeYear:            1990,
	}, testLimits(t))
	assert.ErrorIs(t, err, codelimits.ErrConfigurationMissing)
}

func TestEvaluateRecomputationIsIdentical(t *testing.T) {
	limits := testLimits(t)
	test := &Test{
		SystemAirflowCfm:    950,
		ConditionedAreaSqft: 1650,
		Cfm25Total:          57,
		Cfm25Outside:        31,
		CodeYear:            2012,
	}
	first, err := Evaluate(test, limits)
	require.NoError(t, err)
	second, err := Evaluate(test, limits)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
