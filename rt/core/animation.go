package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPhaseStep is the angular offset between consecutive sites.
const DefaultPhaseStep = 0.03

// ComputeFrame returns the animated position of every site at the given elapsed time.
// Each site circles its base point; the radius breathes with the global clock while the
// angle is offset by i*phaseStep. Results are clamped to [0,1], not wrapped.
// elapsed should be finite; NaN or an infinity is evaluated as 0.
func ComputeFrame(store *SiteStore, elapsed float64, phaseStep float64) []Site {
	out := make([]Site, store.Len())
	fillFrame(out, store, elapsed, phaseStep)
	return out
}

func fillFrame(dst []Site, store *SiteStore, elapsed float64, phaseStep float64) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	sinT := math.Sin(elapsed)
	for i := range dst {
		base := store.bases[i]
		angle := elapsed + float64(i)*phaseStep
		radius := float64(store.amplitudes[i])*sinT*0.5 + 0.1

		x := mgl64.Clamp(float64(base[0])+math.Sin(angle)*radius, 0, 1)
		y := mgl64.Clamp(float64(base[1])+math.Cos(angle)*radius, 0, 1)

		dst[i] = Site{Position: mgl32.Vec2{float32(x), float32(y)}}
	}
}

// Animator produces frames into a reused snapshot so steady-state frames do not allocate.
// The returned slice is only valid until the next call to Frame.
type Animator struct {
	Store     *SiteStore
	PhaseStep float64

	snapshot []Site
}

func NewAnimator(store *SiteStore, phaseStep float64) *Animator {
	return &Animator{
		Store:     store,
		PhaseStep: phaseStep,
		snapshot:  make([]Site, store.Len()),
	}
}

func (a *Animator) Frame(elapsed float64) []Site {
	if len(a.snapshot) != a.Store.Len() {
		a.snapshot = make([]Site, a.Store.Len())
	}
	fillFrame(a.snapshot, a.Store, elapsed, a.PhaseStep)
	return a.snapshot
}
