package journal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/enums"
)

func TestNew(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		j, err := New(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		var count int
		err = j.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='transitions'").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		require.NoError(t, j.Close())
	})

	t.Run("invalid path", func(t *testing.T) {
		j, err := New("/invalid/path/that/does/not/exist/journal.db")
		assert.Error(t, err)
		assert.Nil(t, j)
	})
}

func TestJournal_RecordHistory(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Iteration: "it0000_model", Event: "E1", Kind: enums.JobKindForward, Action: ActionSubmit, Job: "job-abc", At: ts},
		{Iteration: "it0001_model", Event: "E2", Kind: enums.JobKindAdjoint, Action: ActionSubmit, Job: "job-xyz", At: ts},
		{Iteration: "it0000_model", Event: "E1", Kind: enums.JobKindForward, Action: ActionResubmit, Job: "job-def",
			Reposts: 1, At: ts.Add(time.Hour)},
		{Iteration: "it0000_model", Kind: enums.JobKindSmoothing, Action: ActionDelete, Job: "smooth-1"},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
	}

	res, err := j.History(ctx, "it0000_model")
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, ActionSubmit, res[0].Action)
	assert.Equal(t, "job-abc", res[0].Job)
	assert.Equal(t, enums.JobKindForward, res[0].Kind)
	assert.True(t, ts.Equal(res[0].At))
	assert.Equal(t, ActionResubmit, res[1].Action)
	assert.Equal(t, 1, res[1].Reposts)
	assert.Equal(t, "", res[2].Event)
	assert.Equal(t, enums.JobKindSmoothing, res[2].Kind)
	assert.False(t, res[2].At.IsZero())
	assert.Less(t, res[0].ID, res[1].ID)

	all, err := j.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := j.History(ctx, "it0009_model")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournal_ConcurrentRecords(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, j.Record(context.Background(),
				Entry{Iteration: "it0000_model", Event: "E1", Kind: enums.JobKindForward, Action: ActionSubmit}))
		}()
	}
	wg.Wait()

	res, err := j.History(context.Background(), "it0000_model")
	require.NoError(t, err)
	assert.Len(t, res, 20)
}

func TestJournal_Closed(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	err = j.Record(context.Background(), Entry{Iteration: "it0000_model", Kind: enums.JobKindForward, Action: ActionSubmit})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record submit of it0000_model")
	_, err = j.History(context.Background(), "")
	assert.Error(t, err)
}
