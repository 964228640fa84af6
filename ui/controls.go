package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// Actions are the requests made through the controls panel in one frame.
type Actions struct {
	Step       bool
	Run        int // ticks to run, 0 when not requested
	TogglePlay bool
	SaveMap    bool
	SaveSlot   bool
	LoadSlot   bool
}

// Any reports whether any action was requested.
func (a Actions) Any() bool {
	return a.Step || a.Run > 0 || a.TogglePlay || a.SaveMap || a.SaveSlot || a.LoadSlot
}

// ControlsState is the panel state the caller owns.
type ControlsState struct {
	Ticks    int // value of the tick slider
	MaxTicks int
	Paused   bool
	Busy     bool // a run is in progress
	Slot     string
	SlotsOK  bool
}

// ControlsPanel renders the right-side run controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and returns the actions clicked this frame. The
// tick slider writes back into state.
func (c *ControlsPanel) Draw(state *ControlsState) (Actions, int32) {
	var a Actions
	r := c.renderer
	padding := r.Theme.Padding
	inner := float32(c.width - padding*2)
	half := (inner - float32(padding)) / 2
	const rowH = float32(26)

	panelHeight := int32(rowH)*5 + r.Theme.LineHeight*2 + padding*8
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += float32(r.Theme.LineHeight) + 6

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: rowH}, "Step") {
		a.Step = true
	}
	playText := "Pause"
	if state.Paused {
		playText = "Play"
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: rowH}, playText) {
		a.TogglePlay = true
	}
	y += rowH + float32(padding)

	// Tick count slider
	rl.DrawText(fmt.Sprintf("Ticks per run: %d", state.Ticks), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(r.Theme.LineHeight)
	v := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: y, Width: inner - 50, Height: 18},
		"1", fmt.Sprint(state.MaxTicks),
		float32(state.Ticks), 1, float32(state.MaxTicks),
	)
	state.Ticks = int(math.Round(float64(v)))
	y += 18 + float32(padding)

	runText := fmt.Sprintf("Run %d", state.Ticks)
	if state.Busy {
		runText = "Running..."
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: rowH}, runText) && !state.Busy {
		a.Run = state.Ticks
	}
	y += rowH + float32(padding)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: rowH}, "Save map") {
		a.SaveMap = true
	}
	y += rowH + float32(padding)

	if state.SlotsOK {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: rowH}, "Save "+state.Slot) {
			a.SaveSlot = true
		}
		if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: rowH}, "Load "+state.Slot) {
			a.LoadSlot = true
		}
	} else {
		rl.DrawText("Save slots unavailable", int32(x), int32(y+6), r.Theme.FontSize, rl.Gray)
	}

	return a, c.y + panelHeight
}

// LegendPanel shows the color of each cell category.
type LegendPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewLegendPanel creates a new legend panel.
func NewLegendPanel(x, y, width int32) *LegendPanel {
	return &LegendPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (l *LegendPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

// Draw renders one swatch per non-empty category using colorFor.
func (l *LegendPanel) Draw(colorFor func(components.Category) rl.Color) int32 {
	r := l.renderer
	padding := r.Theme.Padding
	names := components.CategoryNames()

	panelHeight := int32(len(names))*r.Theme.LineHeight + padding*2
	r.DrawPanel(l.x, l.y, l.width, panelHeight)

	y := l.y + padding
	y = r.DrawSectionHeader(l.x+padding, y, "Legend")
	for i := range names {
		cat := components.Category(i)
		if cat == components.CategoryEmpty {
			continue
		}
		y = r.DrawColorSwatch(l.x+padding, y, cat.String(), colorFor(cat))
	}
	return l.y + panelHeight
}
