package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/touchpath/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestLoadLayers(t *testing.T) {
	yml := writeFile(t, "touchpath.yaml", `
input: journeys.csv
methods: [shapley, markov]
markov_order: 2
workers: 2
shapley:
  samples: 500
  seed: 9
`)
	dotenv := writeFile(t, "test.env", "TOUCHPATH_WORKERS=6\nTOUCHPATH_FORMAT=markdown\n")
	t.Setenv("TOUCHPATH_WORKERS", "3")
	t.Cleanup(func() { _ = os.Unsetenv("TOUCHPATH_FORMAT") }) // set by the .env file
	t.Setenv("TOUCHPATH_SHAPLEY_INHERIT", "true")

	cfg, err := config.Load(yml, dotenv)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "journeys.csv", cfg.Input)
	assert.Equal(t, []string{"shapley", "markov"}, cfg.Methods)
	assert.Equal(t, 2, cfg.MarkovOrder)
	assert.Equal(t, 3, cfg.Workers, "process env beats .env and YAML")
	assert.Equal(t, "markdown", cfg.Format, ".env fills what the process env lacks")
	assert.Equal(t, 500, cfg.Shapley.Samples)
	assert.Equal(t, int64(9), cfg.Shapley.Seed)
	assert.True(t, cfg.Shapley.Inherit)
	assert.Equal(t, 10, cfg.Shapley.MaxChannels, "default kept")
	assert.True(t, cfg.Header, "default kept")
}

func TestLoadEnvList(t *testing.T) {
	t.Setenv("TOUCHPATH_METHODS", "linear,markov")
	cfg, err := config.Load("", writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"linear", "markov"}, cfg.Methods)
}

func TestApplyFileRejectsUnknownKeys(t *testing.T) {
	yml := writeFile(t, "bad.yaml", "markov_ordr: 2\n")
	cfg := config.Default()
	assert.Error(t, cfg.ApplyFile(yml))

	assert.Error(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"order too high", func(c *config.Config) { c.MarkovOrder = 5 }, "markov_order"},
		{"order zero", func(c *config.Config) { c.MarkovOrder = 0 }, "markov_order"},
		{"unknown method", func(c *config.Config) { c.Methods = []string{"u_shaped"} }, "methods"},
		{"no methods", func(c *config.Config) { c.Methods = nil }, "methods"},
		{"duplicate method", func(c *config.Config) { c.Methods = []string{"linear", "linear"} }, "methods"},
		{"workers", func(c *config.Config) { c.Workers = 0 }, "workers"},
		{"format", func(c *config.Config) { c.Format = "html" }, "format"},
		{"shapley limit", func(c *config.Config) { c.Shapley.MaxChannels = 21 }, "shapley.max_channels"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
