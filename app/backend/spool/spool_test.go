package spool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/lifecycle"
)

var _ lifecycle.Backend = (*Spool)(nil)

func TestSpool_Submit(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	req := lifecycle.SubmitRequest{Description: map[string]any{"model": "m1", "period": 40}, Site: "daint",
		Ranks: 24, WallTime: 2 * time.Hour, Label: "it0000_model/E1/adjoint"}
	h, err := s.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, h.Name, 36, "uuid")
	assert.Equal(t, "daint", h.Site)
	assert.DirExists(t, filepath.Join(root, "daint", h.Name, "outputs"))

	data, err := os.ReadFile(filepath.Join(root, "daint", h.Name, "job.yml"))
	require.NoError(t, err)
	var d Descriptor
	require.NoError(t, yaml.Unmarshal(data, &d))
	assert.Equal(t, h.Name, d.Name)
	assert.Equal(t, "it0000_model/E1/adjoint", d.Label)
	assert.Equal(t, 24, d.Ranks)
	assert.Equal(t, 2*time.Hour, d.WallTime)
	assert.Equal(t, map[string]any{"model": "m1", "period": 40}, d.Description)
	assert.False(t, d.Submitted.IsZero())

	st, err := s.Status(context.Background(), h, true)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusPending, st)

	h2, err := s.Submit(context.Background(), lifecycle.SubmitRequest{Label: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, h.Name, h2.Name)
	assert.DirExists(t, filepath.Join(root, "default", h2.Name), "no site")
}

func TestSpool_Status(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	h, err := s.Submit(ctx, lifecycle.SubmitRequest{Site: "daint", Label: "it/E1/forward"})
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(h, enums.StatusRunning))
	st, err := s.Status(ctx, h, false)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusRunning, st)

	require.NoError(t, s.SetStatus(h, enums.StatusFailed))
	st, err = s.Status(ctx, h, false)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusFailed, st, "non-terminal status not cached")

	// site agent restarted the job, cached terminal status wins until forced refresh
	require.NoError(t, os.WriteFile(filepath.Join(s.dir(h), "status"), []byte("complete\n"), 0o600))
	st, err = s.Status(ctx, h, false)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusFailed, st)
	st, err = s.Status(ctx, h, true)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusComplete, st)

	require.NoError(t, os.Remove(filepath.Join(s.dir(h), "status")))
	st, err = s.Status(ctx, h, true)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusPending, st, "no status file yet")

	require.NoError(t, os.WriteFile(filepath.Join(s.dir(h), "status"), []byte("exploded"), 0o600))
	_, err = s.Status(ctx, h, true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, iteration.ErrNotFound)
}

func TestSpool_NotFound(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, h := range []lifecycle.Handle{{Name: "missing", Site: "daint"}, {Name: "../etc", Site: "daint"}, {}} {
		_, err = s.Status(ctx, h, true)
		assert.ErrorIs(t, err, iteration.ErrNotFound, h.String())
		_, err = s.ListOutputFiles(ctx, h)
		assert.ErrorIs(t, err, iteration.ErrNotFound, h.String())
		assert.ErrorIs(t, s.Delete(ctx, h), iteration.ErrNotFound, h.String())
		assert.ErrorIs(t, s.SetStatus(h, enums.StatusComplete), iteration.ErrNotFound, h.String())
	}
}

func TestSpool_Outputs(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	h, err := s.Submit(ctx, lifecycle.SubmitRequest{Site: "daint", Label: "it/E1/forward"})
	require.NoError(t, err)

	files, err := s.ListOutputFiles(ctx, h)
	require.NoError(t, err)
	assert.Empty(t, files)

	out := filepath.Join(s.dir(h), "outputs")
	require.NoError(t, os.WriteFile(filepath.Join(out, "output.h5"), []byte("wavefield"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stdout"), []byte("done"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(out, ".partial"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(out, "checkpoints"), 0o750))

	files, err = s.ListOutputFiles(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"output.h5": filepath.Join(out, "output.h5"), "stdout": filepath.Join(out, "stdout")}, files)

	dest := filepath.Join(t.TempDir(), "E1", "forward")
	require.NoError(t, s.FetchOutputs(ctx, h, dest))
	data, err := os.ReadFile(filepath.Join(dest, "output.h5"))
	require.NoError(t, err)
	assert.Equal(t, "wavefield", string(data))
	assert.FileExists(t, filepath.Join(dest, "stdout"))
	assert.NoFileExists(t, filepath.Join(dest, ".partial"))
}

func TestSpool_Delete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	h, err := s.Submit(ctx, lifecycle.SubmitRequest{Site: "eiger", Label: "it/smoothing"})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(h, enums.StatusComplete))
	_, err = s.Status(ctx, h, false)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, h))
	assert.NoDirExists(t, s.dir(h))
	_, err = s.Status(ctx, h, false)
	assert.ErrorIs(t, err, iteration.ErrNotFound, "cache dropped")
}

func TestSpool_Canceled(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Submit(ctx, lifecycle.SubmitRequest{Site: "daint"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Status(ctx, lifecycle.Handle{Name: "x"}, true)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New("")
	assert.Error(t, err)
	assert.Equal(t, "spool:/tmp/x", (&Spool{root: "/tmp/x"}).String())
}
