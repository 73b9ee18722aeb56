package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/voronoi/rt/core"
)

// MaxUniformBindingSize is the WebGPU default limit for a uniform buffer binding.
const MaxUniformBindingSize = 64 * 1024

var (
	ErrSnapshotLength = errors.New("site snapshot length does not match buffer")
	ErrTooManySites   = errors.New("too many sites for buffer kind")
)

// BufferKind selects how the site array is bound to the fragment stage.
type BufferKind int

const (
	BufferStorage BufferKind = iota
	BufferUniform
)

func (k BufferKind) String() string {
	switch k {
	case BufferStorage:
		return "storage"
	case BufferUniform:
		return "uniform"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}

func (k BufferKind) Usage() wgpu.BufferUsage {
	if k == BufferUniform {
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
}

func (k BufferKind) BindingType() wgpu.BufferBindingType {
	if k == BufferUniform {
		return wgpu.BufferBindingTypeUniform
	}
	return wgpu.BufferBindingTypeReadOnlyStorage
}

// MaxSites is the largest site count the kind can bind, or 0 for no fixed cap.
func (k BufferKind) MaxSites() int {
	if k == BufferUniform {
		return MaxUniformBindingSize / core.SiteSize
	}
	return 0
}

// BufferCreator is satisfied by *wgpu.Device.
type BufferCreator interface {
	CreateBufferInit(descriptor *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
}

// BufferWriter is satisfied by *wgpu.Queue.
type BufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// SiteBuffer is the device-side site array. Its size is fixed at creation.
type SiteBuffer struct {
	Buffer *wgpu.Buffer
	Kind   BufferKind
	Count  int
}

func NewSiteBuffer(device BufferCreator, label string, initial []core.Site, kind BufferKind) (*SiteBuffer, error) {
	if len(initial) == 0 {
		return nil, core.ErrNoSites
	}
	if limit := kind.MaxSites(); limit > 0 && len(initial) > limit {
		return nil, fmt.Errorf("%w: %d sites, %s binding holds %d", ErrTooManySites, len(initial), kind, limit)
	}

	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: siteBytes(initial),
		Usage:    kind.Usage(),
	})
	if err != nil {
		return nil, fmt.Errorf("create site buffer: %w", err)
	}

	return &SiteBuffer{
		Buffer: buf,
		Kind:   kind,
		Count:  len(initial),
	}, nil
}

func (b *SiteBuffer) Size() uint64 {
	return uint64(b.Count) * core.SiteSize
}

// Upload overwrites the whole buffer with sites. The length is checked before the
// queue is touched.
func (b *SiteBuffer) Upload(queue BufferWriter, sites []core.Site) error {
	if len(sites) != b.Count {
		return fmt.Errorf("%w: got %d, want %d", ErrSnapshotLength, len(sites), b.Count)
	}
	if err := queue.WriteBuffer(b.Buffer, 0, siteBytes(sites)); err != nil {
		return fmt.Errorf("write site buffer: %w", err)
	}
	return nil
}

func (b *SiteBuffer) Release() {
	if b.Buffer != nil {
		b.Buffer.Release()
		b.Buffer = nil
	}
}

func siteBytes(sites []core.Site) []byte {
	return wgpu.ToBytes(sites)
}
