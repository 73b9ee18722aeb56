package voronoi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTick(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	c := newClockAt(func() time.Time { return now })

	assert.Equal(t, 0.0, c.Elapsed())

	now = base.Add(250 * time.Millisecond)
	assert.Equal(t, 0.25, c.Tick())
	assert.Equal(t, 250*time.Millisecond, c.Dt)

	now = base.Add(time.Second)
	assert.Equal(t, 1.0, c.Tick())
	assert.Equal(t, 750*time.Millisecond, c.Dt)
}
