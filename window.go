package voronoi

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

func windowDefaults(w WindowConfig) WindowConfig {
	if w.Width <= 0 {
		w.Width = 800
	}
	if w.Height <= 0 {
		w.Height = 800
	}
	if w.Title == "" {
		w.Title = "Voronoi"
	}
	return w
}

// createWindow opens a GLFW window without a client API; wgpu owns the surface.
// glfw.Init must have been called on the locked main thread.
func createWindow(cfg WindowConfig) (*glfw.Window, error) {
	cfg = windowDefaults(cfg)

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	return glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
}
