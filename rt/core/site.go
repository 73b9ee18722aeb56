package core

import (
	"errors"
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SiteSize is the byte stride of one Site element in the shader's site array.
const SiteSize = 16

// Site matches the WGSL struct { pos: vec2<f32>, pad: vec2<f32> }.
// Pad only exists to keep the 16 byte stride and is always zero.
type Site struct {
	Position mgl32.Vec2
	Pad      [2]float32
}

// Both lines fail to compile if Site drifts away from SiteSize.
var _ [SiteSize - unsafe.Sizeof(Site{})]struct{}
var _ [unsafe.Sizeof(Site{}) - SiteSize]struct{}

var (
	ErrNoSites        = errors.New("site count must be positive")
	ErrAmplitudeRange = errors.New("invalid amplitude range")
	ErrLengthMismatch = errors.New("base positions and amplitudes differ in length")
)

// AmplitudeRange bounds the per-site oscillation amplitude.
type AmplitudeRange struct {
	Min float32
	Max float32
}

// DefaultAmplitudeRange is the range used by the stock renderer.
var DefaultAmplitudeRange = AmplitudeRange{Min: 0.01, Max: 0.05}

func (r AmplitudeRange) validate() error {
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: [%g, %g]", ErrAmplitudeRange, r.Min, r.Max)
	}
	return nil
}

// SiteStore holds the base position and amplitude of every site.
// It is read-only once created; bases[i] and amplitudes[i] describe the same site.
type SiteStore struct {
	bases      []mgl32.Vec2
	amplitudes []float32
}

// NewSiteStore places count sites uniformly in [0,1)x[0,1) and draws each amplitude
// uniformly from amp.
func NewSiteStore(count int, rng *rand.Rand, amp AmplitudeRange) (*SiteStore, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSites, count)
	}
	if err := amp.validate(); err != nil {
		return nil, err
	}

	s := &SiteStore{
		bases:      make([]mgl32.Vec2, count),
		amplitudes: make([]float32, count),
	}
	for i := 0; i < count; i++ {
		x := rng.Float32()
		y := rng.Float32()
		s.bases[i] = mgl32.Vec2{x, y}
		s.amplitudes[i] = amp.Min + rng.Float32()*(amp.Max-amp.Min)
	}
	return s, nil
}

// NewSiteStoreFrom builds a store from explicit data. The slices are copied.
func NewSiteStoreFrom(bases []mgl32.Vec2, amplitudes []float32) (*SiteStore, error) {
	if len(bases) == 0 {
		return nil, ErrNoSites
	}
	if len(bases) != len(amplitudes) {
		return nil, fmt.Errorf("%w: %d bases, %d amplitudes", ErrLengthMismatch, len(bases), len(amplitudes))
	}
	s := &SiteStore{
		bases:      make([]mgl32.Vec2, len(bases)),
		amplitudes: make([]float32, len(amplitudes)),
	}
	copy(s.bases, bases)
	copy(s.amplitudes, amplitudes)
	return s, nil
}

func (s *SiteStore) Len() int { return len(s.bases) }

func (s *SiteStore) Base(i int) mgl32.Vec2 { return s.bases[i] }

func (s *SiteStore) Amplitude(i int) float32 { return s.amplitudes[i] }

// Sites returns the base layout as a site array, e.g. for the buffer's initial contents.
func (s *SiteStore) Sites() []Site {
	out := make([]Site, len(s.bases))
	for i, b := range s.bases {
		out[i] = Site{Position: b}
	}
	return out
}
