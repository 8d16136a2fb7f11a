package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/lifecycle"
)

const fullConfig = `inversion:
  mode: mono-batch
  meshes: multi-mesh
paths:
  iterations: /data/ITERATIONS
  catalog: catalog/events.yml
hpc:
  wave_propagation:
    site: daint
    ranks: 48
    wall_time: 1h30m
  diffusion:
    site: eiger
    ranks: 12
    wall_time: 20m
poller:
  schedule: "@every 2m"
  concurrency: 4
  auto_retrieve: true
  retry:
    attempts: 5
    duration: 2s
    factor: 1.5
    jitter: true
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invflow.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, fullConfig)
	base := filepath.Dir(path)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Inversion{Mode: enums.InversionModeMonoBatch, Meshes: enums.MeshModeMultiMesh}, c.Inversion)
	assert.Equal(t, Paths{
		Iterations:    "/data/ITERATIONS",
		Catalog:       filepath.Join(base, "catalog/events.yml"),
		ControlGroups: filepath.Join(base, "control_groups.yml"),
		Journal:       filepath.Join(base, "journal.db"),
		Intents:       filepath.Join(base, "intents"),
		Spool:         filepath.Join(base, "spool"),
		Outputs:       filepath.Join(base, "OUTPUTS"),
	}, c.Paths)
	assert.Equal(t, lifecycle.Resources{
		WavePropagation: lifecycle.Site{Name: "daint", Ranks: 48, WallTime: 90 * time.Minute},
		Diffusion:       lifecycle.Site{Name: "eiger", Ranks: 12, WallTime: 20 * time.Minute},
	}, c.Resources())
	assert.Equal(t, Poller{Schedule: "@every 2m", Concurrency: 4, AutoRetrieve: true,
		Retry: Retry{Attempts: 5, Duration: 2 * time.Second, Factor: 1.5, Jitter: true}}, c.Poller)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `inversion: {mode: mini-batch, meshes: mono-mesh}
hpc:
  wave_propagation: {site: daint, ranks: 24, wall_time: 1h}
  diffusion: {site: daint, ranks: 4, wall_time: 10m}
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "ITERATIONS"), c.Paths.Iterations)
	assert.Equal(t, Poller{Schedule: "*/5 * * * *", Concurrency: 8,
		Retry: Retry{Attempts: 3, Duration: time.Second, Factor: 2}}, c.Poller)
}

func TestLoad_Errors(t *testing.T) {
	hpc := `
hpc:
  wave_propagation: {site: daint, ranks: 24, wall_time: 1h}
  diffusion: {site: daint, ranks: 4, wall_time: 10m}
`
	tbl := []struct {
		name, data, errMsg string
	}{
		{name: "bad yaml", data: "inversion: [", errMsg: "can't parse"},
		{name: "unknown field", data: "inversion: {mode: mini-batch, meshes: mono-mesh, smoothing: on}" + hpc,
			errMsg: "smoothing"},
		{name: "bad mode", data: "inversion: {mode: full-batch, meshes: mono-mesh}" + hpc, errMsg: "inversion mode"},
		{name: "no mode", data: "inversion: {meshes: mono-mesh}" + hpc, errMsg: "inversion.mode is required"},
		{name: "no meshes", data: "inversion: {mode: mono-batch}" + hpc, errMsg: "inversion.meshes is required"},
		{name: "no hpc", data: "inversion: {mode: mono-batch, meshes: mono-mesh}", errMsg: "hpc:"},
		{name: "bad schedule", data: "inversion: {mode: mono-batch, meshes: mono-mesh}" + hpc +
			"poller: {schedule: 'every day'}", errMsg: "poller.schedule"},
		{name: "bad concurrency", data: "inversion: {mode: mono-batch, meshes: mono-mesh}" + hpc +
			"poller: {concurrency: -1}", errMsg: "poller.concurrency"},
		{name: "bad attempts", data: "inversion: {mode: mono-batch, meshes: mono-mesh}" + hpc +
			"poller: {retry: {attempts: 1000}}", errMsg: "poller.retry.attempts"},
		{name: "bad duration", data: "inversion: {mode: mono-batch, meshes: mono-mesh}" + hpc +
			"poller: {retry: {duration: 2h}}", errMsg: "poller.retry.duration"},
		{name: "bad factor", data: "inversion: {mode: mono-batch, meshes: mono-mesh}" + hpc +
			"poller: {retry: {factor: 0.5}}", errMsg: "poller.retry.factor"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			require.ErrorIs(t, err, iteration.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load("/no/such/invflow.yml")
	require.ErrorIs(t, err, iteration.ErrConfiguration)
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "invflow project file", res["title"])

	props := res["properties"].(map[string]any)
	for _, k := range []string{"inversion", "paths", "hpc", "poller"} {
		assert.Contains(t, props, k)
	}
	inv := props["inversion"].(map[string]any)["properties"].(map[string]any)
	mode := inv["mode"].(map[string]any)
	assert.Equal(t, "string", mode["type"])
	assert.Equal(t, []any{"mini-batch", "mono-batch"}, mode["enum"])
}
