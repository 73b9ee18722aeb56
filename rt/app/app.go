package app

import (
	"fmt"
	"math/rand"

	"github.com/gekko3d/voronoi/rt/core"
	"github.com/gekko3d/voronoi/rt/gpu"
	"github.com/gekko3d/voronoi/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"
)

// Logger is the logging surface the app needs. voronoi.DefaultLogger implements it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options are fixed for the lifetime of an App.
type Options struct {
	SiteCount int
	Amplitude core.AmplitudeRange
	PhaseStep float64
	Kind      gpu.BufferKind

	// Format of the color target; TextureFormatUndefined picks the surface's first format.
	Format      wgpu.TextureFormat
	SampleCount uint32
	ClearColor  wgpu.Color

	Seed  int64
	Debug bool
}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	// Writer receives the per-frame site upload; Init points it at Queue.
	Writer gpu.BufferWriter

	Options   Options
	Log       Logger
	SessionID string

	Store     *core.SiteStore
	Animator  *core.Animator
	Sites     *gpu.SiteBuffer
	Pipeline  *gpu.Pipeline
	BindGroup *wgpu.BindGroup
	Renderer  *gpu.FrameRenderer
	Profiler  *Profiler

	LastElapsed float64
	FrameCount  uint64
}

func NewApp(window *glfw.Window, opts Options, log Logger) *App {
	return &App{
		Window:    window,
		Options:   opts,
		Log:       log,
		SessionID: uuid.NewString(),
		Profiler:  NewProfiler(),
	}
}

// Init builds the site store, the device and every GPU resource. On error nothing
// usable is left behind.
func (a *App) Init() error {
	// Sites first: a bad count must fail before any GPU object exists.
	if err := a.initSites(); err != nil {
		return err
	}
	if err := a.initDevice(); err != nil {
		a.Release()
		return err
	}
	if err := a.initResources(); err != nil {
		a.Release()
		return err
	}
	a.Log.Infof("session %s: %d sites, %s buffer, format %v, msaa x%d",
		a.SessionID, a.Store.Len(), a.Options.Kind, a.Config.Format, a.Options.SampleCount)
	return nil
}

func (a *App) initSites() error {
	if limit := a.Options.Kind.MaxSites(); limit > 0 && a.Options.SiteCount > limit {
		return fmt.Errorf("%w: %d sites, %s binding holds %d", gpu.ErrTooManySites, a.Options.SiteCount, a.Options.Kind, limit)
	}
	rng := rand.New(rand.NewSource(a.Options.Seed))
	store, err := core.NewSiteStore(a.Options.SiteCount, rng, a.Options.Amplitude)
	if err != nil {
		return fmt.Errorf("site store: %w", err)
	}
	a.Store = store
	a.Animator = core.NewAnimator(store, a.Options.PhaseStep)
	return nil
}

func (a *App) initDevice() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Voronoi Device " + a.SessionID})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()
	a.Writer = a.Queue

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format, alphaMode, err := surfaceModes(caps, a.Options.Format)
	if err != nil {
		return err
	}

	// Reject an unsupported format or sample count before the surface is configured.
	opts := a.pipelineOptions(format)
	opts.SupportedFormats = caps.Formats
	if err := opts.Validate(); err != nil {
		return err
	}

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alphaMode,
	}
	a.Surface.Configure(adapter, a.Device, a.Config)
	return nil
}

// surfaceModes picks the color format and alpha mode to configure. An undefined
// requested format takes the surface's first format.
func surfaceModes(caps wgpu.SurfaceCapabilities, requested wgpu.TextureFormat) (wgpu.TextureFormat, wgpu.CompositeAlphaMode, error) {
	if len(caps.Formats) == 0 {
		return wgpu.TextureFormatUndefined, 0, fmt.Errorf("%w: surface reports no formats", gpu.ErrUnsupportedFormat)
	}
	format := requested
	if format == wgpu.TextureFormatUndefined {
		format = caps.Formats[0]
	}
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}
	return format, alphaMode, nil
}

func (a *App) pipelineOptions(format wgpu.TextureFormat) gpu.PipelineOptions {
	src := shaders.VoronoiStorageWGSL
	if a.Options.Kind == gpu.BufferUniform {
		src = shaders.VoronoiUniformWGSL(a.Options.SiteCount)
	}
	return gpu.PipelineOptions{
		Label:        "Voronoi",
		ShaderSource: src,
		Kind:         a.Options.Kind,
		SiteCount:    a.Options.SiteCount,
		Format:       format,
		SampleCount:  a.Options.SampleCount,
	}
}

func (a *App) initResources() error {
	var err error

	a.Sites, err = gpu.NewSiteBuffer(a.Device, "Sites "+a.SessionID, a.Store.Sites(), a.Options.Kind)
	if err != nil {
		return err
	}

	a.Pipeline, err = gpu.BuildPipeline(a.Device, a.pipelineOptions(a.Config.Format))
	if err != nil {
		return err
	}

	a.BindGroup, err = a.Pipeline.CreateBindGroup(a.Sites)
	if err != nil {
		return fmt.Errorf("create site bind group: %w", err)
	}

	a.Renderer = gpu.NewFrameRenderer(a.Device, a.Queue, a.Config.Format, a.Options.SampleCount, a.Options.ClearColor)
	return a.Renderer.Resize(a.Config.Width, a.Config.Height)
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		if err := a.Renderer.Resize(uint32(w), uint32(h)); err != nil {
			a.Log.Errorf("resize to %dx%d: %v", w, h, err)
		}
	}
}

// Update animates the sites to elapsed seconds and uploads the snapshot.
func (a *App) Update(elapsed float64) error {
	if elapsed < a.LastElapsed {
		a.Log.Warnf("elapsed time went backwards: %.4f < %.4f", elapsed, a.LastElapsed)
	}
	a.LastElapsed = elapsed

	a.Profiler.BeginScope("animate")
	sites := a.Animator.Frame(elapsed)
	a.Profiler.EndScope("animate")

	a.Profiler.BeginScope("upload")
	err := a.Sites.Upload(a.Writer, sites)
	a.Profiler.EndScope("upload")
	if err != nil {
		return err
	}
	a.Profiler.SetCount("sites", len(sites))
	return nil
}

// Render draws the current site buffer into the next surface texture and presents it.
// Failures skip the frame.
func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	a.Profiler.BeginScope("render")
	err = a.Renderer.Render(a.Pipeline, a.BindGroup, view)
	a.Profiler.EndScope("render")
	if err != nil {
		a.Log.Errorf("render frame %d: %v", a.FrameCount, err)
		return
	}
	a.Surface.Present()
	a.FrameCount++

	if a.Profiler.Tick(glfw.GetTime()) && a.Options.Debug {
		a.Log.Debugf("FPS %.1f\n%s", a.Profiler.FPS, a.Profiler.GetStatsString())
	}
}

// Frame runs one update-then-render cycle.
func (a *App) Frame(elapsed float64) error {
	if err := a.Update(elapsed); err != nil {
		return err
	}
	a.Render()
	return nil
}

func (a *App) Release() {
	if a.Renderer != nil {
		a.Renderer.Release()
		a.Renderer = nil
	}
	if a.BindGroup != nil {
		a.BindGroup.Release()
		a.BindGroup = nil
	}
	if a.Pipeline != nil {
		a.Pipeline.Release()
		a.Pipeline = nil
	}
	if a.Sites != nil {
		a.Sites.Release()
		a.Sites = nil
	}
	if a.Queue != nil {
		a.Queue.Release()
		a.Queue = nil
		a.Writer = nil
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}
