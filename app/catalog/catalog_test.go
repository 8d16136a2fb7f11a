package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/iteration"
)

func TestCatalog_Events(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yml")
	data := `iterations:
  it0000_model: [E3, E1, E2]
  it0001_model: [E1, E4]
  validation_it0001_model: [V9]
validation: [V1, V2]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	c := New(path)

	tbl := []struct {
		name string
		res  []string
		err  error
	}{
		{name: "it0000_model", res: []string{"E3", "E1", "E2"}},
		{name: "it0001_model", res: []string{"E1", "E4"}},
		{name: "validation_it0000_model", res: []string{"V1", "V2"}},
		{name: "validation_it0001_model", res: []string{"V9"}},
		{name: "it0002_model", err: iteration.ErrNotFound},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Events(tt.name)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Contains(t, err.Error(), tt.name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.res, res)
		})
	}
}

func TestCatalog_Broken(t *testing.T) {
	dir := t.TempDir()
	_, err := New(filepath.Join(dir, "missing.yml")).Events("it0000_model")
	require.ErrorIs(t, err, iteration.ErrNotFound)

	path := filepath.Join(dir, "events.yml")
	require.NoError(t, os.WriteFile(path, []byte("iterations: [broken"), 0o600))
	_, err = New(path).Events("it0000_model")
	require.ErrorIs(t, err, iteration.ErrConfiguration)

	require.NoError(t, os.WriteFile(path, []byte("iterations:\n  it0000_model: [E1, E1]\n"), 0o600))
	_, err = New(path).Events("it0000_model")
	require.ErrorIs(t, err, iteration.ErrConfiguration)
	assert.Contains(t, err.Error(), `"E1"`)

	_, err = New("/dev/null").Events("validation_it0000_model")
	require.ErrorIs(t, err, iteration.ErrNotFound, "empty file, no validation set")
}

func TestCatalog_Set(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yml")
	c := New(path)

	require.NoError(t, c.Set("it0000_model", []string{"E1", "E2"}))
	require.NoError(t, c.Set("it0001_model", []string{"E2", "E7"}))
	require.NoError(t, c.Set("it0000_model", []string{"E1", "E5"}))

	res, err := c.Events("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E5"}, res)
	res, err = c.Events("it0001_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E2", "E7"}, res)

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	exp := `iterations:
    it0000_model:
        - E1
        - E5
    it0001_model:
        - E2
        - E7
`
	assert.Equal(t, exp, string(data))

	assert.ErrorIs(t, c.Set("it0002_model", []string{"E1", ""}), iteration.ErrConfiguration)
	assert.Equal(t, "catalog:"+path, c.String())
}
