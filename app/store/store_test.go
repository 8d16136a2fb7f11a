package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/store/mocks"
)

func newTestStore(t *testing.T, mode enums.InversionMode, groups Groups) *Store {
	t.Helper()
	cat := &mocks.CatalogMock{EventsFunc: func(string) ([]string, error) { return []string{"E1", "E2"}, nil }}
	s, err := New(Params{Dir: t.TempDir(), Mode: mode, Meshes: enums.MeshModeMonoMesh, Catalog: cat, Groups: groups})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	cat := &mocks.CatalogMock{}
	dir := filepath.Join(t.TempDir(), "records", "nested")
	s, err := New(Params{Dir: dir, Mode: enums.InversionModeMiniBatch, Meshes: enums.MeshModeMonoMesh, Catalog: cat})
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, s.Dir)

	_, err = New(Params{Mode: enums.InversionModeMiniBatch, Meshes: enums.MeshModeMonoMesh, Catalog: cat})
	assert.ErrorIs(t, err, iteration.ErrConfiguration)

	_, err = New(Params{Dir: dir, Meshes: enums.MeshModeMonoMesh, Catalog: cat})
	assert.ErrorIs(t, err, iteration.ErrConfiguration)

	_, err = New(Params{Dir: dir, Mode: enums.InversionModeMiniBatch, Meshes: enums.MeshModeMonoMesh})
	assert.ErrorIs(t, err, iteration.ErrConfiguration)
}

func TestStore_CreateLoad(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)

	it, err := s.Create("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2"}, it.EventNames())
	assert.Equal(t, []string{}, it.LastControlGroup)
	assert.FileExists(t, filepath.Join(s.Dir, "it0000_model.yml"))

	loaded, err := s.Load("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, it, loaded)
	assert.False(t, loaded.ReadOnly())

	_, err = s.Load("it0009_model")
	require.ErrorIs(t, err, iteration.ErrNotFound)
	assert.Contains(t, err.Error(), "it0009_model")

	_, err = s.Load("../etc/passwd")
	assert.ErrorIs(t, err, iteration.ErrConfiguration)
}

func TestStore_CreateChainsControlGroup(t *testing.T) {
	groups := &mocks.GroupsMock{ChainFunc: func(name string) ([]string, error) {
		if name == "it0001_model" {
			return []string{"E1"}, nil
		}
		return []string{}, nil
	}}
	s := newTestStore(t, enums.InversionModeMiniBatch, groups)

	it, err := s.Create("it0001_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1"}, it.LastControlGroup)

	val, err := s.Create("validation_it0001_model")
	require.NoError(t, err)
	assert.Nil(t, val.LastControlGroup)
	require.Len(t, groups.ChainCalls(), 1, "validation iterations are not chained")
	assert.Equal(t, "it0001_model", groups.ChainCalls()[0].Iteration)

	groups.ChainFunc = func(string) ([]string, error) { return nil, errors.New("ledger broken") }
	_, err = s.Create("it0002_model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger broken")
	assert.NoFileExists(t, filepath.Join(s.Dir, "it0002_model.yml"))
}

func TestStore_CreateBackup(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	it, err := s.Create("it0000_model")
	require.NoError(t, err)

	require.NoError(t, NewBridge(s).Apply(it, iteration.SetJobName("E1", enums.JobKindForward, "job-abc"),
		iteration.SetSubmitted("E1", enums.JobKindForward, true)))
	before, err := os.ReadFile(filepath.Join(s.Dir, "it0000_model.yml"))
	require.NoError(t, err)

	fresh, err := s.Create("it0000_model")
	require.NoError(t, err)
	assert.Empty(t, fresh.Events["E1"].Forward.Name)

	_, err = s.Create("it0000_model")
	require.NoError(t, err)

	backups, err := os.ReadDir(filepath.Join(s.Dir, "BACKUP"))
	require.NoError(t, err)
	require.Len(t, backups, 2, "each re-create keeps its own backup")
	first, err := os.ReadFile(filepath.Join(s.Dir, "BACKUP", backups[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(first))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"it0000_model"}, names, "backups are not listed")
}

func TestStore_CreateCatalogError(t *testing.T) {
	cat := &mocks.CatalogMock{EventsFunc: func(string) ([]string, error) {
		return nil, iteration.ErrNotFound
	}}
	s, err := New(Params{Dir: t.TempDir(), Mode: enums.InversionModeMiniBatch, Meshes: enums.MeshModeMonoMesh, Catalog: cat})
	require.NoError(t, err)
	_, err = s.Create("it0000_model")
	assert.ErrorIs(t, err, iteration.ErrNotFound)
}

func TestStore_LoadModeMismatch(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMonoBatch, nil)
	_, err := s.Create("it0000_model")
	require.NoError(t, err)

	other, err := New(Params{Dir: s.Dir, Mode: enums.InversionModeMiniBatch, Meshes: enums.MeshModeMonoMesh, Catalog: s.Catalog})
	require.NoError(t, err)
	_, err = other.Load("it0000_model")
	assert.ErrorIs(t, err, iteration.ErrConfiguration)
}

func TestStore_LoadMalformed(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "it0000_model.yml"), []byte("events: [1, 2"), 0o600))
	_, err := s.Load("it0000_model")
	assert.ErrorIs(t, err, iteration.ErrConfiguration)

	it, err := s.Create("it0001_model")
	require.NoError(t, err)
	data, err := iteration.Encode(it)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "it0002_model.yml"), data, 0o600))
	_, err = s.Load("it0002_model")
	require.ErrorIs(t, err, iteration.ErrConfiguration)
	assert.Contains(t, err.Error(), "it0001_model")
}

func TestStore_LoadHistorical(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMonoBatch, nil)
	_, err := s.Create("it0000_model")
	require.NoError(t, err)

	it, err := s.LoadHistorical("it0000_model")
	require.NoError(t, err)
	assert.True(t, it.ReadOnly())

	err = NewBridge(s).Apply(it, iteration.SetMisfit("E1", 1))
	assert.ErrorIs(t, err, iteration.ErrInvalidState)

	_, err = s.LoadHistorical("it0005_model")
	assert.ErrorIs(t, err, iteration.ErrNotFound)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMonoBatch, nil)
	it, err := s.Create("it0000_model")
	require.NoError(t, err)

	b := NewBridge(s)
	require.NoError(t, b.Apply(it,
		iteration.SetJobName("E2", enums.JobKindSmoothing, "smooth-1"),
		iteration.SetSubmitted("E1", enums.JobKindSmoothing, true),
		iteration.SetMisfit("E2", 0.5),
		iteration.SetNewControlGroup([]string{"E2"}),
	))

	loaded, err := s.Load("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, it, loaded)
	assert.Equal(t, "smooth-1", loaded.Smoothing.Name, "mono-batch smoothing persisted")

	require.NoError(t, s.Save(loaded))
	again, err := s.Load("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, it, again)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left")
}

func TestStore_SaveConcurrentIterations(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	names := []string{"it0000_model", "it0001_model", "it0002_model", "it0003_model"}
	its := make([]*iteration.Iteration, len(names))
	for i, n := range names {
		it, err := s.Create(n)
		require.NoError(t, err)
		its[i] = it
	}

	var wg sync.WaitGroup
	for i := range its {
		wg.Add(1)
		go func(it *iteration.Iteration) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, NewBridge(s).Apply(it, iteration.SetMisfit("E1", float64(j))))
			}
		}(its[i])
	}
	wg.Wait()

	for _, n := range names {
		it, err := s.Load(n)
		require.NoError(t, err)
		assert.InDelta(t, 9.0, *it.Events["E1"].Misfit, 1e-9)
	}
}

func TestStore_SaveFails(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	it, err := s.Create("it0000_model")
	require.NoError(t, err)

	s.Dir = filepath.Join(s.Dir, "missing")
	err = s.Save(it)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save it0000_model")
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"it0001_model", "validation_it0000_model", "it0000_model"} {
		_, err = s.Create(n)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, ".it0000_model.yml.123.tmp"), []byte("x"), 0o600))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"it0000_model", "it0001_model", "validation_it0000_model"}, names)
}
