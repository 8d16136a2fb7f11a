package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeDup(t *testing.T) {
	d := NewDeDup()
	assert.True(t, d.Add("it0001"), "passed, first time")
	assert.False(t, d.Add("it0001"), "failed, dup")
	assert.True(t, d.Add("it0002"), "passed, different iteration")
	assert.Len(t, d.Active(), 2)
	d.Remove("it0001")
	d.Remove("it0001")
	assert.True(t, d.Add("it0001"), "passed, removed before")
	assert.False(t, d.Add("it0002"), "failed, dup")
}
