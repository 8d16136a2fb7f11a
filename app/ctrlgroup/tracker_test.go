package ctrlgroup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/ctrlgroup/mocks"
	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/store"
	storemocks "github.com/umputun/invflow/app/store/mocks"
)

// orderBy makes ordering mock for a fixed list of regular iterations
func orderBy(names ...string) *mocks.OrderingMock {
	return &mocks.OrderingMock{PreviousIterationFunc: func(name string) (string, error) {
		prev := ""
		for _, n := range names {
			if n >= name {
				break
			}
			prev = n
		}
		return prev, nil
	}}
}

func TestTracker_StartIteration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control_groups.yml")
	tr := New(path, orderBy("it0000_model", "it0001_model"))

	require.NoError(t, tr.StartIteration("it0000_model", false))
	old, err := tr.Old("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, []string{}, old)
	nw, err := tr.New("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, []string{}, nw)

	require.NoError(t, tr.CommitNewGroup("it0000_model", []string{"E2", "E1", "E2"}))
	require.NoError(t, tr.StartIteration("it0001_model", false))
	old, err = tr.Old("it0001_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2"}, old)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	exp := `it0000_model:
    old: []
    new:
        - E1
        - E2
it0001_model:
    old:
        - E1
        - E2
    new: []
`
	assert.Equal(t, exp, string(data))
}

func TestTracker_StartValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control_groups.yml")
	ord := orderBy()
	tr := New(path, ord)

	require.NoError(t, tr.StartIteration("validation_it0000_model", true))
	require.NoError(t, tr.StartIteration("validation_it0001_model", false), "validation by name")
	assert.Empty(t, ord.PreviousIterationCalls())
	assert.NoFileExists(t, path)

	_, err := tr.Old("validation_it0000_model")
	assert.ErrorIs(t, err, iteration.ErrNotFound)
	err = tr.CommitNewGroup("validation_it0000_model", []string{"E1"})
	assert.ErrorIs(t, err, iteration.ErrInvalidState)
}

func TestTracker_RestartKeepsNewGroup(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "control_groups.yml"), orderBy("it0000_model"))
	require.NoError(t, tr.StartIteration("it0000_model", false))
	require.NoError(t, tr.CommitNewGroup("it0000_model", []string{"E3"}))

	require.NoError(t, tr.StartIteration("it0000_model", false))
	nw, err := tr.New("it0000_model")
	require.NoError(t, err)
	assert.Equal(t, []string{"E3"}, nw)
}

func TestTracker_CommitNotStarted(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "control_groups.yml"), orderBy())
	err := tr.CommitNewGroup("it0004_model", []string{"E1"})
	require.ErrorIs(t, err, iteration.ErrInvalidState)
	assert.Contains(t, err.Error(), "it0004_model")

	_, err = tr.New("it0004_model")
	assert.ErrorIs(t, err, iteration.ErrNotFound)
}

func TestTracker_ChainErrors(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "control_groups.yml"), orderBy("it0000_model", "it0001_model"))
	err := tr.StartIteration("it0001_model", false)
	require.ErrorIs(t, err, iteration.ErrInvalidState, "previous iteration never started")
	assert.Contains(t, err.Error(), "it0000_model")

	tr = New(filepath.Join(t.TempDir(), "control_groups.yml"), &mocks.OrderingMock{
		PreviousIterationFunc: func(string) (string, error) { return "", errors.New("listing failed") },
	})
	_, err = tr.Chain("it0001_model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing failed")
}

func TestTracker_MalformedLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control_groups.yml")
	require.NoError(t, os.WriteFile(path, []byte("it0000_model: [broken"), 0o600))
	tr := New(path, orderBy())
	_, err := tr.Ledger()
	assert.ErrorIs(t, err, iteration.ErrConfiguration)
	assert.ErrorIs(t, tr.StartIteration("it0000_model", false), iteration.ErrConfiguration)
}

// chain of iterations created through the store, old group of each one is the new group of the previous
func TestTracker_ChainedIterations(t *testing.T) {
	dir := t.TempDir()
	tr := New(filepath.Join(dir, "control_groups.yml"), store.NewSequence(filepath.Join(dir, "iterations")))
	cat := &storemocks.CatalogMock{EventsFunc: func(string) ([]string, error) { return []string{"E1", "E2", "E3"}, nil }}
	st, err := store.New(store.Params{Dir: filepath.Join(dir, "iterations"), Mode: enums.InversionModeMiniBatch,
		Meshes: enums.MeshModeMonoMesh, Catalog: cat, Groups: tr})
	require.NoError(t, err)

	create := func(name string) *iteration.Iteration {
		require.NoError(t, tr.StartIteration(name, iteration.IsValidationName(name)))
		it, err := st.Create(name)
		require.NoError(t, err)
		return it
	}

	it0 := create("it0000_model")
	assert.Equal(t, []string{}, it0.LastControlGroup)
	require.NoError(t, tr.CommitNewGroup("it0000_model", []string{"E1"}))

	create("validation_it0000_model")

	it1 := create("it0001_model")
	assert.Equal(t, []string{"E1"}, it1.LastControlGroup)
	require.NoError(t, tr.CommitNewGroup("it0001_model", []string{"E2", "E3"}))

	it2 := create("it0002_model")
	assert.Equal(t, []string{"E2", "E3"}, it2.LastControlGroup)

	ledger, err := tr.Ledger()
	require.NoError(t, err)
	assert.Len(t, ledger, 3)
	seq := store.NewSequence(st.Dir)
	for name, grp := range ledger {
		prev, err := seq.PreviousIteration(name)
		require.NoError(t, err)
		if prev == "" {
			assert.Empty(t, grp.Old)
			continue
		}
		assert.Equal(t, ledger[prev].New, grp.Old, "%s chained from %s", name, prev)
	}
}
