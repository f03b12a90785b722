package codelimits

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupACH50(t *testing.T) {
	table, err := LoadEmbedded()
	require.NoError(t, err)

	tests := []struct {
		name     string
		codeYear int
		zone     int
		want     float64
	}{
		{"2009 applies everywhere", 2009, 5, 7.0},
		{"2012 hot-humid zone", 2012, 2, 5.0},
		{"2012 cold zone", 2012, 6, 3.0},
		{"2018 cold zone", 2018, 5, 3.0},
		{"2021 all zones", 2021, 1, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, err := table.LookupACH50(tt.codeYear, tt.zone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, limit)
		})
	}
}

func TestLookupACH50Missing(t *testing.T) {
	table, err := LoadEmbedded()
	require.NoError(t, err)

	_, err = table.LookupACH50(1998, 4)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestLookupDuct(t *testing.T) {
	table, err := LoadEmbedded()
	require.NoError(t, err)

	limit, err := table.LookupDuct(2015)
	require.NoError(t, err)
	assert.Equal(t, 4.0, limit.MaxTotalPercentOfFlow)
	assert.Equal(t, 3.0, limit.MaxOutsidePercentOfFlow)

	_, err = table.LookupDuct(1842)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestLoadPrefersOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code_limits.toml")
	override := `
[[ach50_limit]]
code_year = 2024
max_ach50 = 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0644))

	table, err := Load(path)
	require.NoError(t, err)

	limit, err := table.LookupACH50(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.5, limit)

	// Entries from the embedded defaults are not merged in.
	_, err = table.LookupACH50(2009, 3)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestLoadMissingFileFallsBackToEmbedded(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	require.NoError(t, err)

	limit, err := table.LookupACH50(2009, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, limit)
}
