package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetpipe/internal"
)

func TestDefaultRules(t *testing.T) {
	set := Default()
	assert.Equal(t, internal.RiskHigh, set.RiskLevel(internal.LifecycleEOL))
	assert.Equal(t, internal.RiskHigh, set.RiskLevel(internal.LifecycleEOS))
	assert.Equal(t, internal.RiskLow, set.RiskLevel(internal.LifecycleActive))
	assert.Equal(t, internal.RiskLow, set.RiskLevel("EOL ")) // no trimming at this layer
	assert.Equal(t, 365.25, set.DaysPerYear)
}

func TestLoadEmptyPathKeepsDefaults(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), set)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	blob := []byte("high_statuses:\n  - EOL\n  - EOS\n  - Extended Support\ndays_per_year: 365\n")
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, internal.RiskHigh, set.RiskLevel("Extended Support"))
	assert.Equal(t, 365.0, set.DaysPerYear)
	// Labels fall back to the defaults when the file leaves them out.
	assert.Equal(t, internal.RiskHigh, set.HighLabel)
	assert.Equal(t, internal.RiskLow, set.LowLabel)
}

func TestLoadRejectsBrokenFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("days_per_year: -1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
