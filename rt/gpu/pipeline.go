package gpu

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/voronoi/rt/core"
)

var (
	ErrShaderCompile     = errors.New("shader module failed to compile")
	ErrUnsupportedFormat = errors.New("color format not supported by surface")
	ErrSampleCount       = errors.New("unsupported multisample count")
	ErrBufferKind        = errors.New("site buffer kind does not match pipeline layout")
)

// PipelineOptions is everything the Voronoi pipeline depends on besides the device.
type PipelineOptions struct {
	Label        string
	ShaderSource string
	Kind         BufferKind
	SiteCount    int
	Format       wgpu.TextureFormat
	SampleCount  uint32

	// SupportedFormats lists the surface formats; when empty Format is not checked.
	SupportedFormats []wgpu.TextureFormat
}

func (o PipelineOptions) Validate() error {
	if o.SiteCount <= 0 {
		return fmt.Errorf("%w: got %d", core.ErrNoSites, o.SiteCount)
	}
	if o.SampleCount != 1 && o.SampleCount != 4 {
		return fmt.Errorf("%w: %d (want 1 or 4)", ErrSampleCount, o.SampleCount)
	}
	if o.Format == wgpu.TextureFormatUndefined {
		return fmt.Errorf("%w: undefined", ErrUnsupportedFormat)
	}
	if len(o.SupportedFormats) > 0 && !slices.Contains(o.SupportedFormats, o.Format) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, o.Format)
	}
	if o.ShaderSource == "" {
		return fmt.Errorf("%w: empty source", ErrShaderCompile)
	}
	return nil
}

// Pipeline is the immutable render state for the full-screen Voronoi pass.
// A different shader, format or sample count needs a new Pipeline.
type Pipeline struct {
	Device          *wgpu.Device
	Options         PipelineOptions
	Shader          *wgpu.ShaderModule
	BindGroupLayout *wgpu.BindGroupLayout
	Layout          *wgpu.PipelineLayout
	Render          *wgpu.RenderPipeline
}

func BuildPipeline(device *wgpu.Device, opts PipelineOptions) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Label == "" {
		opts.Label = "Voronoi"
	}

	p := &Pipeline{Device: device, Options: opts}
	var err error

	p.Shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          opts.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: opts.ShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}

	p.BindGroupLayout, err = device.CreateBindGroupLayout(bindGroupLayoutDescriptor(opts))
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	p.Layout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            opts.Label + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.BindGroupLayout},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	p.Render, err = device.CreateRenderPipeline(renderPipelineDescriptor(opts, p.Shader, p.Layout))
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	return p, nil
}

// minBindingSize is one element for storage arrays and the full array for uniforms,
// whose WGSL declaration has a fixed length.
func minBindingSize(opts PipelineOptions) uint64 {
	if opts.Kind == BufferUniform {
		return uint64(opts.SiteCount) * core.SiteSize
	}
	return core.SiteSize
}

func bindGroupLayoutDescriptor(opts PipelineOptions) *wgpu.BindGroupLayoutDescriptor {
	return &wgpu.BindGroupLayoutDescriptor{
		Label: opts.Label + " Sites BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             opts.Kind.BindingType(),
					HasDynamicOffset: false,
					MinBindingSize:   minBindingSize(opts),
				},
			},
		},
	}
}

func renderPipelineDescriptor(opts PipelineOptions, shader *wgpu.ShaderModule, layout *wgpu.PipelineLayout) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  opts.Label + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			// The full-screen triangle is generated from the vertex index.
			Buffers: nil,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: opts.Format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorZero,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorZero,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  opts.SampleCount,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
}

// CreateBindGroup binds buf at group 0, binding 0.
func (p *Pipeline) CreateBindGroup(buf *SiteBuffer) (*wgpu.BindGroup, error) {
	if buf.Kind != p.Options.Kind {
		return nil, fmt.Errorf("%w: buffer is %s, pipeline expects %s", ErrBufferKind, buf.Kind, p.Options.Kind)
	}
	if buf.Count != p.Options.SiteCount {
		return nil, fmt.Errorf("%w: buffer holds %d, pipeline expects %d", ErrSnapshotLength, buf.Count, p.Options.SiteCount)
	}
	return p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.Options.Label + " Sites BG",
		Layout: p.BindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf.Buffer,
				Size:    buf.Size(),
			},
		},
	})
}

func (p *Pipeline) Release() {
	if p.Render != nil {
		p.Render.Release()
		p.Render = nil
	}
	if p.Layout != nil {
		p.Layout.Release()
		p.Layout = nil
	}
	if p.BindGroupLayout != nil {
		p.BindGroupLayout.Release()
		p.BindGroupLayout = nil
	}
	if p.Shader != nil {
		p.Shader.Release()
		p.Shader = nil
	}
}
