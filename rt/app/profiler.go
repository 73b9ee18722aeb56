package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last CPU duration of each named frame phase and a rolling FPS.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	FPS        float64
	frameCount int
	fpsTime    float64
	lastTick   float64
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Tick records a presented frame at now (seconds). It returns true when a new FPS
// value was computed, about once per second.
func (p *Profiler) Tick(now float64) bool {
	defer func() { p.lastTick = now }()
	if p.lastTick <= 0 {
		return false
	}
	p.frameCount++
	p.fpsTime += now - p.lastTick
	if p.fpsTime < 1.0 {
		return false
	}
	p.FPS = float64(p.frameCount) / p.fpsTime
	p.frameCount = 0
	p.fpsTime = 0
	return true
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-8s: %.2f ms\n", name, ms))
	}

	if len(p.Counts) > 0 {
		sb.WriteString("Stats:\n")
		keys := make([]string, 0, len(p.Counts))
		for k := range p.Counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %-8s: %d\n", k, p.Counts[k]))
		}
	}
	return sb.String()
}
