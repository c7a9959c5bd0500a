package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/touchpath/attribution"
)

const journeys = `user_id,channel_id,converted
u1,search,0
u1,email,1
u2,search,0
u3,email,1
`

func writeInput(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "journeys.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestRunJSON(t *testing.T) {
	in := writeInput(t, journeys)
	metrics := filepath.Join(t.TempDir(), "touchpath.prom")

	out, _, err := execute(t, "run", "-i", in, "-f", "json", "--workers", "2", "--metrics-file", metrics)
	require.NoError(t, err)

	var rep attribution.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, attribution.Methods, rep.Methods)
	assert.Equal(t, 2, rep.Conversions)
	assert.Equal(t, 2.0, rep.Results[attribution.Shapley]["email"])
	assert.Equal(t, 0.6667, rep.Results[attribution.Markov]["search"])

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "touchpath_phase_duration_seconds")
}

func TestRunPositionalAndMethods(t *testing.T) {
	in := writeInput(t, journeys)
	out, _, err := execute(t, "run", in, "--methods", "linear,markov", "--markov-order", "2", "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "|")
	assert.Contains(t, strings.ToLower(out), "markov")
	assert.NotContains(t, strings.ToLower(out), "shapley")
}

func TestRunRejectsInvalidSettings(t *testing.T) {
	in := writeInput(t, journeys)

	_, _, err := execute(t, "run", "-i", in, "--markov-order", "5")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "markov_order")

	_, _, err = execute(t, "run")
	assert.ErrorIs(t, err, errNoInput)
}

func TestRunConfigFile(t *testing.T) {
	in := writeInput(t, journeys)
	cfgPath := filepath.Join(t.TempDir(), "touchpath.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input: "+in+"\nmethods: [first_touch]\nformat: json\n"), 0o600))

	out, _, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	var rep attribution.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []attribution.Method{attribution.FirstTouch}, rep.Methods)
}

func TestRunDegenerateInput(t *testing.T) {
	in := writeInput(t, "user_id,channel_id,converted\nu1,search,0\n")
	out, _, err := execute(t, "run", "-i", in)
	require.ErrorIs(t, err, attribution.ErrDegenerateInput)
	assert.Contains(t, out, "search", "zero report is still rendered")
}

func TestMatrix(t *testing.T) {
	in := writeInput(t, journeys)
	out, _, err := execute(t, "matrix", "-i", in)
	require.NoError(t, err)
	assert.Contains(t, out, "(conversion)")
	assert.Contains(t, out, "conversion rate from (start): 0.6667")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "touchpath dev\n", out)
}
