package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	_, ok := r.Take()
	assert.False(t, ok)

	r.Navigate("/forgot-password")
	r.Navigate("/main")

	route, ok := r.Take()
	assert.True(t, ok)
	assert.Equal(t, "/main", route)
	assert.Equal(t, 2, r.Count())

	_, ok = r.Take()
	assert.False(t, ok, "a route is only taken once")
}
