package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/report"
)

func resetFlags(t *testing.T) {
	t.Helper()
	saved := flags
	t.Cleanup(func() { flags = saved })
	flags.samples = 40
	flags.classes = 4
	flags.dataSeed = 1
	flags.negProp = 3
	flags.format = "json"
	flags.width = 4
}

func TestLoadConfig(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: Reuters_dim10\nneg_prop: 7\n"), 0o644))
	flags.configPath = path
	flags.negProp = 0

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Reuters_dim10", cfg.Dataset)
	assert.Equal(t, 7, cfg.NegProp)

	flags.dataset = "MNIST"
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestRunWritesReports(t *testing.T) {
	resetFlags(t)
	flags.reportDir = t.TempDir()
	flags.format = "proto"

	require.NoError(t, run(2))

	for _, name := range []string{"round-000.pb", "round-001.pb", "round-002.pb"} {
		r, err := report.Load(filepath.Join(flags.reportDir, name), report.FormatProto)
		require.NoError(t, err)
		assert.Equal(t, "Scene15", r.Dataset)
		assert.Equal(t, 80, r.Pairs)
	}
}

func TestErrorMessage(t *testing.T) {
	resetFlags(t)
	flags.dataset = "MNIST"
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, errorMessage(err), "pairgen: configuration error: ")

	assert.Equal(t, "pairgen: shape error: empty", errorMessage(errkind.Shapef("empty")))
	assert.Equal(t, "pairgen: boom", errorMessage(errors.New("boom")))
}
