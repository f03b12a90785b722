package codelimits

import "errors"

// ErrConfigurationMissing means no limit entry exists for the requested
// code year/zone. Callers must fail the evaluation loudly; defaulting to a
// permissive or restrictive limit would misrepresent compliance.
var ErrConfigurationMissing = errors.New("no code limit configured for requested year/zone")

// Table holds the code-cycle limits. It is loaded once at startup and must
// never be mutated during a calculation.
type Table struct {
	ACH50Limits []ACH50Limit `toml:"ach50_limit"`
	DuctLimits  []DuctLimit  `toml:"duct_limit"`
}

type ACH50Limit struct {
	CodeYear int `toml:"code_year"`
	// Empty means the limit applies to all climate zones.
	ClimateZones []int   `toml:"climate_zones"`
	MaxACH50     float64 `toml:"max_ach50"`
}

type DuctLimit struct {
	CodeYear                int     `toml:"code_year"`
	MaxTotalPercentOfFlow   float64 `toml:"max_total_percent_of_flow"`
	MaxOutsidePercentOfFlow float64 `toml:"max_outside_percent_of_flow"`
}
