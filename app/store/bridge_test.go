package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/store/mocks"
)

func TestBridge_Apply(t *testing.T) {
	it, err := iteration.New("it0000_model", enums.InversionModeMiniBatch, enums.MeshModeMonoMesh, []string{"E1"}, nil)
	require.NoError(t, err)

	var saved *iteration.Iteration
	saver := &mocks.SaverMock{SaveFunc: func(v *iteration.Iteration) error {
		saved = v.Clone()
		return nil
	}}
	b := NewBridge(saver)

	err = b.Apply(it, iteration.SetJobName("E1", enums.JobKindForward, "job-abc"),
		iteration.SetSubmitted("E1", enums.JobKindForward, true))
	require.NoError(t, err)
	require.Len(t, saver.SaveCalls(), 1)
	assert.Equal(t, "job-abc", it.Events["E1"].Forward.Name)
	assert.Equal(t, saved, it, "memory matches what was persisted")

	require.NoError(t, b.Apply(it))
	assert.Len(t, saver.SaveCalls(), 1, "nothing to save without mutations")
}

func TestBridge_ApplyFailures(t *testing.T) {
	it, err := iteration.New("it0000_model", enums.InversionModeMiniBatch, enums.MeshModeMonoMesh, []string{"E1"}, nil)
	require.NoError(t, err)
	orig := it.Clone()

	saver := &mocks.SaverMock{SaveFunc: func(*iteration.Iteration) error { return errors.New("disk full") }}
	b := NewBridge(saver)

	t.Run("save failure keeps memory unchanged", func(t *testing.T) {
		err := b.Apply(it, iteration.SetMisfit("E1", 2))
		require.EqualError(t, err, "disk full")
		assert.Equal(t, orig, it)
	})

	t.Run("mutation failure saves nothing", func(t *testing.T) {
		err := b.Apply(it, iteration.SetMisfit("E1", 2), iteration.SetReposts("E1", enums.JobKindForward, -1))
		require.ErrorIs(t, err, iteration.ErrInvalidState)
		assert.Equal(t, orig, it)
		assert.Len(t, saver.SaveCalls(), 1)
	})

	t.Run("inconsistent result rejected", func(t *testing.T) {
		err := b.Apply(it, iteration.SetJobName("E1", enums.JobKindForward, "job-abc"))
		require.ErrorIs(t, err, iteration.ErrConfiguration)
		assert.Contains(t, err.Error(), "E1/forward")
		assert.Equal(t, orig, it)
		assert.Len(t, saver.SaveCalls(), 1)
	})
}
