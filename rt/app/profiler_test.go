package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerScopes(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("animate")
	time.Sleep(time.Millisecond)
	p.EndScope("animate")
	p.BeginScope("upload")
	p.EndScope("upload")
	p.BeginScope("animate")
	p.EndScope("animate")

	assert.Equal(t, []string{"animate", "upload"}, p.Order)
	p.SetCount("sites", 64)

	stats := p.GetStatsString()
	assert.True(t, strings.Index(stats, "animate") < strings.Index(stats, "upload"))
	assert.Contains(t, stats, "sites")
	assert.Contains(t, stats, "64")
	assert.True(t, p.Scopes["animate"] > 0)
}

func TestProfilerTick(t *testing.T) {
	p := NewProfiler()
	assert.False(t, p.Tick(10.0), "first tick only sets the reference time")

	now := 10.0
	var reported bool
	for i := 0; i < 60; i++ {
		now += 0.02
		reported = p.Tick(now)
	}
	// 60 frames at 20ms is 1.2s; the report fired on frame 50.
	assert.False(t, reported)
	assert.InDelta(t, 50.0, p.FPS, 0.01)
}
