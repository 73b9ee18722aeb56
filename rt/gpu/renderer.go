package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrNoTarget = errors.New("no multisample target; call Resize first")

// FrameRenderer records and submits the single full-screen draw of a frame.
// With SampleCount 4 it renders into its own multisampled texture and resolves into
// the target view.
type FrameRenderer struct {
	Device      *wgpu.Device
	Queue       *wgpu.Queue
	Format      wgpu.TextureFormat
	SampleCount uint32
	ClearColor  wgpu.Color

	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView
	width       uint32
	height      uint32
}

func NewFrameRenderer(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, sampleCount uint32, clear wgpu.Color) *FrameRenderer {
	return &FrameRenderer{
		Device:      device,
		Queue:       queue,
		Format:      format,
		SampleCount: sampleCount,
		ClearColor:  clear,
	}
}

// Resize (re)creates the multisampled color target. It is a no-op without MSAA.
func (r *FrameRenderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	r.width, r.height = width, height
	if r.SampleCount <= 1 {
		return nil
	}
	r.releaseTarget()

	var err error
	r.msaaTexture, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Voronoi MSAA",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   r.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        r.Format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create msaa texture: %w", err)
	}
	r.msaaView, err = r.msaaTexture.CreateView(nil)
	if err != nil {
		r.releaseTarget()
		return fmt.Errorf("create msaa view: %w", err)
	}
	return nil
}

// Render clears target, draws three vertices with the pipeline and bind group 0, and
// submits without waiting for the GPU.
func (r *FrameRenderer) Render(p *Pipeline, bindGroup *wgpu.BindGroup, target *wgpu.TextureView) error {
	if p.Options.SampleCount != r.SampleCount {
		return fmt.Errorf("%w: pipeline uses %d, renderer %d", ErrSampleCount, p.Options.SampleCount, r.SampleCount)
	}
	if r.SampleCount > 1 && r.msaaView == nil {
		return ErrNoTarget
	}

	encoder, err := r.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Voronoi Encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Voronoi Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{colorAttachment(target, r.msaaView, r.ClearColor)},
	})
	err = recordDraw(pass, p.Render, bindGroup)
	pass.Release()
	if err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	r.Queue.Submit(cmd)
	return nil
}

func (r *FrameRenderer) Release() {
	r.releaseTarget()
}

func (r *FrameRenderer) releaseTarget() {
	if r.msaaView != nil {
		r.msaaView.Release()
		r.msaaView = nil
	}
	if r.msaaTexture != nil {
		r.msaaTexture.Release()
		r.msaaTexture = nil
	}
}

func colorAttachment(target, msaa *wgpu.TextureView, clear wgpu.Color) wgpu.RenderPassColorAttachment {
	att := wgpu.RenderPassColorAttachment{
		View:       target,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clear,
	}
	if msaa != nil {
		att.View = msaa
		att.ResolveTarget = target
	}
	return att
}

// passRecorder is the subset of *wgpu.RenderPassEncoder used by a frame.
type passRecorder interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
}

func recordDraw(pass passRecorder, pipeline *wgpu.RenderPipeline, bindGroup *wgpu.BindGroup) error {
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	return nil
}
