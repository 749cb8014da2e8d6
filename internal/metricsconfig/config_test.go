package metricsconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
)

func TestLoad(t *testing.T) {
	path := "../../config/metrics/accounts.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dart_single_account", cfg.Meta.VocabularyID)
	assert.Equal(t, 3, cfg.TargetYears)
	assert.Contains(t, cfg.Accounts.Revenue, "영업수익")
	assert.NotEmpty(t, yamlData)

	names := cfg.AccountNames()
	assert.True(t, names.Recognizes("수익(매출액)"))
}

func TestDefault_MatchesEngineDefaults(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, s1_metrics.DefaultAccountNames(), cfg.AccountNames())
	assert.Equal(t, s1_metrics.DefaultTargetYears, cfg.TargetYears)
}

func TestParse_UnknownField(t *testing.T) {
	data := []byte(`
target_years: 3
accounts:
  total_assets: ["자산총계"]
  revnue: ["매출액"]
`)
	_, err := Parse(data)
	assert.Error(t, err, "typo in field name must fail")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{"valid default", func(c *Config) {}, ""},
		{"target years too small", func(c *Config) { c.TargetYears = 1 }, "target_years"},
		{"missing revenue", func(c *Config) { c.Accounts.Revenue = nil }, "accounts.revenue"},
		{"blank name", func(c *Config) { c.Accounts.NetIncome = []string{" "} }, "accounts.net_income"},
		{
			name:    "duplicate across fields",
			mutate:  func(c *Config) { c.Accounts.OperatingProfit = []string{"매출액"} },
			wantKey: "accounts.operating_profit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantKey, verr.Field)
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	h2, _ := Hash(Default())

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)

	other := Default()
	other.TargetYears = 5
	h3, _ := Hash(other)
	assert.NotEqual(t, h1, h3)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_years: 0\n"), 0o644))

	_, err = LoadOrDefault(path)
	assert.Error(t, err)
}
