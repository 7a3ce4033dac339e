package graphics

import (
	"context"
	"errors"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	// raylib and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

// WindowOptions configures the window opened by Run.
type WindowOptions struct {
	Width, Height int32
	Title         string
	Fullscreen    bool
	TargetFPS     int32
}

// Host is driven by Run. Load runs once the GL context exists and Unload before it is destroyed.
// Update and Draw are called once per frame; Draw runs between BeginDrawing and EndDrawing.
type Host interface {
	Load() error
	Update()
	Draw()
	Unload()
}

// Run opens the window and drives h until the window is closed or ctx is cancelled.
// ESC is used by the host (console, details panel), not to quit; close via the window button.
func Run(ctx context.Context, opts WindowOptions, h Host) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.New("graphics: invalid window size")
	}
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	width, height := opts.Width, opts.Height
	if opts.Fullscreen {
		width, height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	}
	rl.InitWindow(width, height, opts.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(opts.TargetFPS)
	}
	if err := h.Load(); err != nil {
		return err
	}
	defer h.Unload()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		h.Update()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		h.Draw()
		rl.EndDrawing()
	}
	return nil
}
