package codelimits

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed default_limits.toml
var defaultLimitsToml []byte

// Load reads the limit table at path, falling back to the embedded defaults
// when no override file exists.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return LoadEmbedded()
	}

	var table Table
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("failed to decode code limits at %s: %w", path, err)
	}
	return &table, nil
}

// LoadEmbedded parses the shipped default table.
func LoadEmbedded() (*Table, error) {
	var table Table
	if err := toml.Unmarshal(defaultLimitsToml, &table); err != nil {
		return nil, fmt.Errorf("failed to decode embedded code limits: %w", err)
	}
	return &table, nil
}

// LookupACH50 returns the envelope leakage limit for a code year and climate
// zone. Entries without climate zones match every zone.
func (t *Table) LookupACH50(codeYear, climateZone int) (float64, error) {
	for _, limit := range t.ACH50Limits {
		if limit.CodeYear != codeYear {
			continue
		}
		if len(limit.ClimateZones) == 0 {
			return limit.MaxACH50, nil
		}
		for _, zone := range limit.ClimateZones {
			if zone == climateZone {
				return limit.MaxACH50, nil
			}
		}
	}
	return 0, fmt.Errorf("ach50 limit for code year %d zone %d: %w", codeYear, climateZone, ErrConfigurationMissing)
}

// LookupDuct returns the duct leakage limits for a code year.
func (t *Table) LookupDuct(codeYear int) (DuctLimit, error) {
	for _, limit := range t.DuctLimits {
		if limit.CodeYear == codeYear {
			return limit, nil
		}
	}
	return DuctLimit{}, fmt.Errorf("duct limits for code year %d: %w", codeYear, ErrConfigurationMissing)
}
