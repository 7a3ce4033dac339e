package debug

import (
	"fmt"
	"runtime"
)

// updateInterval: only refresh the text every N frames to reduce allocations.
const updateInterval = 30

// Stats is the per-frame input to the HUD.
type Stats struct {
	FPS      int32
	Books    int
	Capacity int
}

// Debug holds runtime debugging overlays (FPS, shelf occupancy, heap). All are off by default.
// It only produces text; the graphics layer draws it top-right.
type Debug struct {
	ShowFPS      bool
	ShowBooks    bool
	ShowMemAlloc bool

	frameCount uint32
	lastFPS    string
	lastMem    string
	memStats   runtime.MemStats
}

// New returns a HUD with every line off.
func New() *Debug {
	return &Debug{}
}

func (d *Debug) SetShowFPS(show bool) { d.ShowFPS = show }

func (d *Debug) SetShowBooks(show bool) { d.ShowBooks = show }

func (d *Debug) SetShowMemAlloc(show bool) { d.ShowMemAlloc = show }

// Lines returns the HUD lines for this frame. FPS and memory text are recomputed every
// updateInterval frames; the book count is always current.
func (d *Debug) Lines(st Stats) []string {
	d.frameCount++
	update := d.frameCount%updateInterval == 0

	var out []string
	if d.ShowFPS {
		if update || d.lastFPS == "" {
			d.lastFPS = fmt.Sprintf("FPS: %d", st.FPS)
		}
		out = append(out, d.lastFPS)
	}
	if d.ShowBooks {
		out = append(out, fmt.Sprintf("Books: %d/%d", st.Books, st.Capacity))
	}
	if d.ShowMemAlloc {
		if update || d.lastMem == "" {
			runtime.ReadMemStats(&d.memStats)
			d.lastMem = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		out = append(out, d.lastMem)
	}
	return out
}
