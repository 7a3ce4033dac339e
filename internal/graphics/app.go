package graphics

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"bookshelf/internal/book"
	"bookshelf/internal/controller"
	"bookshelf/internal/debug"
	"bookshelf/internal/logger"
	"bookshelf/internal/overlay"
	"bookshelf/internal/terminal"
	"bookshelf/internal/ui"
)

var background = rl.NewColor(245, 240, 232, 255)

const (
	barHeight   = 40
	termPadding = 8
	hudPadding  = 12
	lineSpacing = 4
	textSpacing = 1
)

// AppOptions wires the pieces drawn by App. Terminal, Debug and UI may be nil.
type AppOptions struct {
	Controller *controller.Controller
	Terminal   *terminal.Terminal
	Debug      *debug.Debug
	UI         *ui.Engine
	FontPath   string
	Logger     *logger.Logger
}

// App is the raylib host for the bookshelf: it feeds mouse and keyboard input to the controller
// and console, then draws the scene, title labels, details panel, console and HUD.
type App struct {
	ctrl     *controller.Controller
	term     *terminal.Terminal
	hud      *debug.Debug
	ui       *ui.Engine
	details  *ui.DetailsPanel
	renderer *Renderer
	log      *logger.Logger

	fontPath string
	font     rl.Font
	ownFont  bool

	swallow bool // the current press was consumed by the details panel
	lastX   float32
	lastY   float32
}

// NewApp wires the controller callbacks to the details panel and console.
func NewApp(o AppOptions) *App {
	a := &App{
		ctrl:     o.Controller,
		term:     o.Terminal,
		hud:      o.Debug,
		ui:       o.UI,
		details:  ui.NewDetailsPanel(),
		renderer: NewRenderer(),
		log:      o.Logger,
		fontPath: o.FontPath,
	}
	if a.hud == nil {
		a.hud = debug.New()
	}
	if a.ui == nil {
		a.ui = ui.New()
		a.ui.SetStylesheet(ui.DefaultStylesheet())
	}
	a.ctrl.OnSelect(a.details.Show)
	a.ctrl.OnShelfFull(func(bs []book.Book) {
		for _, b := range bs {
			a.log.Log(fmt.Sprintf("shelf is full, %q was not placed", b.Title))
		}
	})
	return a
}

// Details exposes the details panel, e.g. for the console.
func (a *App) Details() *ui.DetailsPanel { return a.details }

func (a *App) Load() error {
	a.renderer.Load()
	a.font = rl.GetFontDefault()
	if a.fontPath != "" {
		f := rl.LoadFont(a.fontPath)
		if f.Texture.ID != 0 {
			a.font, a.ownFont = f, true
		} else {
			a.log.Warn("font not loaded, using default", "path", a.fontPath)
		}
	}
	a.ctrl.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	return nil
}

func (a *App) Unload() {
	a.renderer.Unload()
	if a.ownFont {
		rl.UnloadFont(a.font)
		a.ownFont = false
	}
}

// Update handles input for one frame and advances the controller.
func (a *App) Update() {
	if rl.IsWindowResized() {
		a.ctrl.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		switch {
		case a.details.Visible():
			a.details.Hide()
		case a.term != nil:
			if a.term.Toggle() {
				a.ctrl.CancelDrag()
			}
		}
	}
	if a.term != nil && a.term.IsOpen() {
		a.updateTerminal()
	} else {
		a.updatePointer()
	}
	a.ctrl.Frame()
}

func (a *App) updateTerminal() {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		a.term.Paste(rl.GetClipboardText())
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			a.term.Type(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		a.term.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		// Errors are already echoed to the console.
		_ = a.term.Submit()
	}
}

func (a *App) updatePointer() {
	pos := rl.GetMousePosition()
	x, y := pos.X, pos.Y
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if a.details.Click(x, y) {
			a.swallow = true
			return
		}
		a.ctrl.PointerDown(x, y)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		if a.swallow {
			a.swallow = false
			return
		}
		a.ctrl.PointerUp(x, y)
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		if !a.swallow && (x != a.lastX || y != a.lastY) {
			a.ctrl.PointerMove(x, y)
		}
	}
	a.lastX, a.lastY = x, y
}

// Draw renders the frame. Called between BeginDrawing and EndDrawing.
func (a *App) Draw() {
	cam := a.ctrl.Camera()
	rl.BeginMode3D(Camera3D(cam))
	a.renderer.DrawGraph(a.ctrl.Graph(), cam)
	rl.EndMode3D()

	a.drawLabels()
	a.drawNodes(a.details.AppendNodes(nil))
	if a.term != nil && a.term.IsOpen() {
		a.drawTerminal()
	}
	a.drawHUD()
}

func (a *App) drawLabels() {
	style := a.ui.Style("book-label", "")
	size := float32(style.FontSize)
	width := float32(style.Width)
	if width <= 0 {
		width = overlay.DefaultWidth
	}
	measure := func(s string) float32 { return rl.MeasureTextEx(a.font, s, size, textSpacing).X }
	for _, l := range a.ctrl.Labels() {
		// Rotated -90°, successive lines stack to the right.
		for i, line := range overlay.Wrap(l.Title, width, measure) {
			pos := rl.NewVector2(l.X+float32(i)*(size+lineSpacing), l.Y)
			rl.DrawTextPro(a.font, line, pos, rl.NewVector2(0, 0), overlay.Rotation, size, textSpacing, rgba(style.Color))
		}
	}
}

func (a *App) drawNodes(nodes []*ui.Node) {
	if len(nodes) == 0 {
		return
	}
	a.ui.SetNodes(nodes)
	for _, s := range a.ui.Layout(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())) {
		b := s.Bounds
		x, y, w, h := int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height)
		if s.Style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, rgba(s.Style.Background))
		}
		if s.Style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, rgba(s.Style.Border))
		}
		if s.Node.Text != "" {
			pad := float32(s.Style.Padding)
			a.text(s.Node.Text, b.X+pad, b.Y+pad, float32(s.Style.FontSize), s.Style.Color)
		}
	}
}

func (a *App) drawTerminal() {
	bar := a.ui.Style("terminal", "")
	hist := a.ui.Style("terminal-lines", "")
	size := float32(bar.FontSize)
	lineHeight := int32(size) + lineSpacing
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - barHeight

	lines := a.term.Lines()
	histH := int32(terminal.MaxLinesOnScreen) * lineHeight
	histY := max(barY-histH, 0)
	rl.DrawRectangle(0, histY, screenW, barY-histY, rgba(hist.Background))
	for i, line := range lines {
		a.text(line, termPadding, float32(histY+int32(i)*lineHeight+termPadding), size, hist.Color)
	}

	rl.DrawRectangle(0, barY, screenW, barHeight, rgba(bar.Background))
	rl.DrawRectangle(0, barY, screenW, 1, rgba(bar.Border))
	a.text(terminal.Prompt+a.term.Input()+"|", termPadding, float32(barY+termPadding), size, bar.Color)
}

func (a *App) drawHUD() {
	sl := a.ctrl.Shelf()
	lines := a.hud.Lines(debug.Stats{FPS: rl.GetFPS(), Books: sl.Len(), Capacity: sl.Layout().Capacity})
	if len(lines) == 0 {
		return
	}
	style := a.ui.Style("hud", "")
	size := float32(style.FontSize)
	screenW := float32(rl.GetScreenWidth())
	y := float32(hudPadding)
	for _, line := range lines {
		w := rl.MeasureTextEx(a.font, line, size, textSpacing).X
		a.text(line, screenW-w-hudPadding, y, size, style.Color)
		y += size + lineSpacing
	}
}

func (a *App) text(s string, x, y, size float32, c color.RGBA) {
	rl.DrawTextEx(a.font, s, rl.NewVector2(x, y), size, textSpacing, rgba(c))
}
