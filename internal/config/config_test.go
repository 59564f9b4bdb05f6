package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Identifier", cfg.Sources.IdentifierColumn)
	assert.Len(t, cfg.Cleaning.AccountDefaults, 9)
	assert.Len(t, cfg.Cleaning.HolderDefaults, 12)
	assert.Equal(t, "0", cfg.Cleaning.FraudDefault)
	assert.Equal(t, "Missing", cfg.Cleaning.HolderDefaults["Gender"])
	assert.Equal(t, "-1", cfg.Cleaning.HolderDefaults["Income"])
	assert.Len(t, cfg.Features.AgeBuckets.Labels, len(cfg.Features.AgeBuckets.Bounds)-1)
	assert.Len(t, cfg.Features.IncomeBuckets.Labels, len(cfg.Features.IncomeBuckets.Bounds)-1)
	assert.Equal(t, 5, cfg.Analysis.TopSegments)
}

func TestBucketConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buckets BucketConfig
		wantErr bool
	}{
		{
			name:    "valid",
			buckets: BucketConfig{Bounds: []float64{0, 17, 24}, Labels: []string{"0-17", "18-24"}},
			wantErr: false,
		},
		{
			name:    "label count mismatch",
			buckets: BucketConfig{Bounds: []float64{0, 17, 24}, Labels: []string{"0-17"}},
			wantErr: true,
		},
		{
			name:    "non-ascending bounds",
			buckets: BucketConfig{Bounds: []float64{0, 24, 17}, Labels: []string{"a", "b"}},
			wantErr: true,
		},
		{
			name:    "duplicate bound",
			buckets: BucketConfig{Bounds: []float64{0, 17, 17}, Labels: []string{"a", "b"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buckets.validate("test")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RejectsEmptyFillMaps(t *testing.T) {
	cfg := Default()
	cfg.Cleaning.AccountDefaults = nil

	assert.Error(t, cfg.Validate())
}

func TestLoad_YAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mulewatch.yaml")
	yaml := `
sources:
  data_dir: /srv/fraud/input
analysis:
  top_segments: 3
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/fraud/input", cfg.Sources.DataDir)
	assert.Equal(t, 3, cfg.Analysis.TopSegments)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched defaults survive the overlay
	assert.Equal(t, "account_data.csv", cfg.Sources.AccountFile)
	assert.Equal(t, "MuleAccount", cfg.Analysis.MuleColumn)
}

func TestLoad_EnvPrecedence(t *testing.T) {
	t.Setenv("MULEWATCH_SOURCES_DATA_DIR", "/env/wins")
	t.Setenv("MULEWATCH_ANALYSIS_TOP_SEGMENTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/wins", cfg.Sources.DataDir)
	assert.Equal(t, 7, cfg.Analysis.TopSegments)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mulewatch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("sources: ["), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Sources.DataDir = "data"
	cfg.Output.Dir = "reports"

	assert.Equal(t, filepath.Join("data", "account_data.csv"), cfg.AccountPath())
	assert.Equal(t, filepath.Join("data", "account_holder_data.csv"), cfg.HolderPath())
	assert.Equal(t, filepath.Join("data", "mule_flag.csv"), cfg.FraudPath())
	assert.Equal(t, filepath.Join("reports", "mule_by_age.html"), cfg.OutputPath(cfg.Output.AgeChart))
}
