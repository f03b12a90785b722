package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoistAirDensityStandardConditions(t *testing.T) {
	// Dry air at 70F and sea-level pressure is the 0.075 lb/ft3 reference.
	density := MoistAirDensityLbFt3(70, 0, SeaLevelPressureInHg)
	assert.InDelta(t, ReferenceAirDensityLbFt3, density, 0.001)
}

func TestMoistAirDensityHumidAirIsLighter(t *testing.T) {
	dry := MoistAirDensityLbFt3(85, 0, SeaLevelPressureInHg)
	humid := MoistAirDensityLbFt3(85, 90, SeaLevelPressureInHg)
	assert.Less(t, humid, dry)
}

func TestDensityFactorNearUnityAtReferenceConditions(t *testing.T) {
	factor := DensityFactor(70, 70, 40, 40, SeaLevelPressureInHg)
	assert.InDelta(t, 1.0, factor, 0.01)
}

func TestDensityFactorDirection(t *testing.T) {
	reference := DensityFactor(70, 70, 40, 40, SeaLevelPressureInHg)

	// Denser (cold) outdoor air shrinks the corrected flow.
	cold := DensityFactor(10, 70, 40, 40, SeaLevelPressureInHg)
	assert.Less(t, cold, reference)

	// Lighter (hot) outdoor air grows it.
	hot := DensityFactor(100, 70, 40, 40, SeaLevelPressureInHg)
	assert.Greater(t, hot, reference)
}

func TestDensityFactorUnphysicalInputFallsBackToUnity(t *testing.T) {
	assert.Equal(t, 1.0, DensityFactor(-500, 70, 40, 40, SeaLevelPressureInHg))
	assert.Equal(t, 1.0, DensityFactor(70, 70, 40, 40, 0))
}

func TestAltitudeFactor(t *testing.T) {
	tests := []struct {
		name       string
		altitudeFt float64
		min, max   float64
	}{
		{"sea level", 0, 0.9999, 1.0001},
		{"denver", 5280, 1.07, 1.09},
		{"high mountain", 10000, 1.14, 1.18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor := AltitudeFactor(tt.altitudeFt)
			assert.GreaterOrEqual(t, factor, tt.min)
			assert.LessOrEqual(t, factor, tt.max)
		})
	}
}

func TestAltitudeFactorMonotonic(t *testing.T) {
	previous := AltitudeFactor(0)
	for _, ft := range []float64{1000, 2500, 5000, 8000} {
		factor := AltitudeFactor(ft)
		assert.Greater(t, factor, previous)
		previous = factor
	}
}
