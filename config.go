package voronoi

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/voronoi/rt/app"
	"github.com/gekko3d/voronoi/rt/core"
	"github.com/gekko3d/voronoi/rt/gpu"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config holds every construction-time knob. None of it changes while running.
type Config struct {
	Window WindowConfig `yaml:"window"`

	Sites        int     `yaml:"sites"`
	AmplitudeMin float32 `yaml:"amplitude_min"`
	AmplitudeMax float32 `yaml:"amplitude_max"`
	PhaseStep    float64 `yaml:"phase_step"`

	// Buffer is "storage" or "uniform".
	Buffer string `yaml:"buffer"`
	// Format names the color target format; empty uses the surface's preferred format.
	Format string `yaml:"format"`
	// MSAA is the multisample count, 1 or 4.
	MSAA uint32 `yaml:"msaa"`
	// ClearColor is an SVG color name, e.g. "black".
	ClearColor string `yaml:"clear_color"`

	// Seed for site placement; 0 seeds from the clock.
	Seed  int64 `yaml:"seed"`
	Debug bool  `yaml:"debug"`
}

// DefaultConfig is the storage-buffer setup with 1024 sites and 4x MSAA.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 800,
			Title:  "Voronoi",
		},
		Sites:        1024,
		AmplitudeMin: core.DefaultAmplitudeRange.Min,
		AmplitudeMax: core.DefaultAmplitudeRange.Max,
		PhaseStep:    core.DefaultPhaseStep,
		Buffer:       gpu.BufferStorage.String(),
		MSAA:         4,
		ClearColor:   "black",
	}
}

// UniformConfig is the smaller uniform-buffer setup with 64 sites and no MSAA.
func UniformConfig() Config {
	c := DefaultConfig()
	c.Sites = 64
	c.Buffer = gpu.BufferUniform.String()
	c.MSAA = 1
	return c
}

// LoadConfig overlays the YAML file at path on base. Keys missing from the file keep
// their base value.
func LoadConfig(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Sites <= 0 {
		return fmt.Errorf("%w: sites must be positive, got %d", ErrInvalidConfig, c.Sites)
	}
	if c.AmplitudeMin < 0 || c.AmplitudeMin > c.AmplitudeMax {
		return fmt.Errorf("%w: amplitude range [%g, %g]", ErrInvalidConfig, c.AmplitudeMin, c.AmplitudeMax)
	}
	kind, err := parseBufferKind(c.Buffer)
	if err != nil {
		return err
	}
	if limit := kind.MaxSites(); limit > 0 && c.Sites > limit {
		return fmt.Errorf("%w: %d sites exceed the %s limit of %d", ErrInvalidConfig, c.Sites, kind, limit)
	}
	if _, err := parseFormat(c.Format); err != nil {
		return err
	}
	if c.MSAA != 1 && c.MSAA != 4 {
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.MSAA)
	}
	if _, err := parseColor(c.ClearColor); err != nil {
		return err
	}
	return nil
}

// AppOptions resolves the config into the renderer's options.
func (c Config) AppOptions() (app.Options, error) {
	if err := c.Validate(); err != nil {
		return app.Options{}, err
	}
	kind, _ := parseBufferKind(c.Buffer)
	format, _ := parseFormat(c.Format)
	clearColor, _ := parseColor(c.ClearColor)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return app.Options{
		SiteCount:   c.Sites,
		Amplitude:   core.AmplitudeRange{Min: c.AmplitudeMin, Max: c.AmplitudeMax},
		PhaseStep:   c.PhaseStep,
		Kind:        kind,
		Format:      format,
		SampleCount: c.MSAA,
		ClearColor:  clearColor,
		Seed:        seed,
		Debug:       c.Debug,
	}, nil
}

func parseBufferKind(name string) (gpu.BufferKind, error) {
	switch strings.ToLower(name) {
	case "", "storage":
		return gpu.BufferStorage, nil
	case "uniform":
		return gpu.BufferUniform, nil
	}
	return 0, fmt.Errorf("%w: unknown buffer kind %q", ErrInvalidConfig, name)
}

var textureFormats = map[string]wgpu.TextureFormat{
	"":                wgpu.TextureFormatUndefined,
	"bgra8unorm":      wgpu.TextureFormatBGRA8Unorm,
	"bgra8unorm-srgb": wgpu.TextureFormatBGRA8UnormSrgb,
	"rgba8unorm":      wgpu.TextureFormatRGBA8Unorm,
	"rgba8unorm-srgb": wgpu.TextureFormatRGBA8UnormSrgb,
	"rgba16float":     wgpu.TextureFormatRGBA16Float,
}

func parseFormat(name string) (wgpu.TextureFormat, error) {
	f, ok := textureFormats[strings.ToLower(name)]
	if !ok {
		return wgpu.TextureFormatUndefined, fmt.Errorf("%w: unknown color format %q", ErrInvalidConfig, name)
	}
	return f, nil
}

func parseColor(name string) (wgpu.Color, error) {
	if name == "" {
		name = "black"
	}
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return wgpu.Color{}, fmt.Errorf("%w: unknown color %q", ErrInvalidConfig, name)
	}
	return wgpu.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}, nil
}
