package core

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteLayout(t *testing.T) {
	assert.Equal(t, uintptr(SiteSize), unsafe.Sizeof(Site{}))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(Site{}.Position))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(Site{}.Pad))

	sites := make([]Site, 3)
	stride := uintptr(unsafe.Pointer(&sites[1])) - uintptr(unsafe.Pointer(&sites[0]))
	assert.Equal(t, uintptr(SiteSize), stride)
}

func TestNewSiteStore(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	store, err := NewSiteStore(1024, rng, DefaultAmplitudeRange)
	require.NoError(t, err)
	require.Equal(t, 1024, store.Len())

	for i := 0; i < store.Len(); i++ {
		b := store.Base(i)
		if b.X() < 0 || b.X() >= 1 || b.Y() < 0 || b.Y() >= 1 {
			t.Fatalf("base %d out of [0,1): %v", i, b)
		}
		a := store.Amplitude(i)
		if a < DefaultAmplitudeRange.Min || a > DefaultAmplitudeRange.Max {
			t.Fatalf("amplitude %d out of range: %f", i, a)
		}
	}
}

func TestNewSiteStoreSeeded(t *testing.T) {
	a, err := NewSiteStore(64, rand.New(rand.NewSource(42)), DefaultAmplitudeRange)
	require.NoError(t, err)
	b, err := NewSiteStore(64, rand.New(rand.NewSource(42)), DefaultAmplitudeRange)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewSiteStoreErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewSiteStore(0, rng, DefaultAmplitudeRange)
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = NewSiteStore(-3, rng, DefaultAmplitudeRange)
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = NewSiteStore(4, rng, AmplitudeRange{Min: 0.05, Max: 0.01})
	assert.ErrorIs(t, err, ErrAmplitudeRange)

	_, err = NewSiteStore(4, rng, AmplitudeRange{Min: -0.1, Max: 0.01})
	assert.ErrorIs(t, err, ErrAmplitudeRange)
}

func TestNewSiteStoreFrom(t *testing.T) {
	bases := []mgl32.Vec2{{0.25, 0.5}, {0.75, 0.5}}
	amps := []float32{0.02, 0.04}

	store, err := NewSiteStoreFrom(bases, amps)
	require.NoError(t, err)

	// The store owns copies.
	bases[0] = mgl32.Vec2{9, 9}
	amps[0] = 9
	assert.Equal(t, mgl32.Vec2{0.25, 0.5}, store.Base(0))
	assert.Equal(t, float32(0.02), store.Amplitude(0))

	_, err = NewSiteStoreFrom(nil, nil)
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = NewSiteStoreFrom(bases, amps[:1])
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSiteStoreSites(t *testing.T) {
	store, err := NewSiteStoreFrom([]mgl32.Vec2{{0.1, 0.2}, {0.3, 0.4}}, []float32{0.01, 0.01})
	require.NoError(t, err)

	sites := store.Sites()
	require.Len(t, sites, 2)
	assert.Equal(t, Site{Position: mgl32.Vec2{0.3, 0.4}}, sites[1])
}
