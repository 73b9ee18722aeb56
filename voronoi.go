// Package voronoi hosts the GPU Voronoi renderer: it opens the window, drives the
// per-frame update and render cycle, and tears everything down on exit.
package voronoi

import (
	"fmt"

	"github.com/gekko3d/voronoi/rt/app"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Run opens a window and renders until it is closed. It must be called from the main
// goroutine with the OS thread locked.
func Run(cfg Config, log Logger) error {
	opts, err := cfg.AppOptions()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := createWindow(cfg.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	application := app.NewApp(window, opts, log)
	application.Log = log.WithPrefix(sessionPrefix(application.SessionID))
	if err := application.Init(); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		if key == glfw.KeyF3 && action == glfw.Press {
			log.SetDebug(!log.DebugEnabled())
			application.Options.Debug = log.DebugEnabled()
		}
	})

	clock := NewClock()
	for !window.ShouldClose() {
		glfw.PollEvents()
		if err := application.Frame(clock.Tick()); err != nil {
			return err
		}
	}
	log.Infof("rendered %d frames in %.1fs", application.FrameCount, clock.Elapsed())
	return nil
}

// sessionPrefix tags log lines with the first block of the session ID.
func sessionPrefix(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "voronoi " + id
}
