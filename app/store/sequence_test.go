package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/invflow/app/enums"
)

func TestSequence(t *testing.T) {
	s := newTestStore(t, enums.InversionModeMiniBatch, nil)
	seq := NewSequence(s.Dir)

	newest, err := seq.NewestIteration()
	require.NoError(t, err)
	assert.Empty(t, newest)

	prev, err := seq.PreviousIteration("it0000_model")
	require.NoError(t, err)
	assert.Empty(t, prev)

	for _, n := range []string{"it0000_model", "validation_it0000_model", "it0001_model", "it0003_model"} {
		_, err = s.Create(n)
		require.NoError(t, err)
	}

	tbl := []struct {
		name, prev string
	}{
		{"it0000_model", ""},
		{"it0001_model", "it0000_model"},
		{"it0002_model", "it0001_model"},
		{"it0003_model", "it0001_model"},
		{"it0004_model", "it0003_model"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			prev, err := seq.PreviousIteration(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.prev, prev)
		})
	}

	newest, err = seq.NewestIteration()
	require.NoError(t, err)
	assert.Equal(t, "it0003_model", newest)

	missing := NewSequence(s.Dir + "/nope")
	newest, err = missing.NewestIteration()
	require.NoError(t, err)
	assert.Empty(t, newest)
}
