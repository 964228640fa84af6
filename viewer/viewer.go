// Package viewer is the raylib front-end: the colored grid, a HUD, run
// controls and a cell inspector.
package viewer

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/renderer"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/ui"
)

const panelWidth = 260

// Options configures the viewer.
type Options struct {
	Title        string
	CellSize     int
	StepDelay    time.Duration
	DefaultTicks int
	MaxRunTicks  int // upper bound of the tick slider
	Slots        *telemetry.SlotStore
	SlotName     string
	SaveMapPath  string
}

// Viewer draws a simulation into the current raylib window and drives it
// from the controls. rl.InitWindow must be called first.
type Viewer struct {
	sim  *game.Simulation
	opts Options

	cam       *camera.Camera
	grid      *renderer.GridRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	legend    *ui.LegendPanel
	inspector *ui.Inspector
	perf      *ui.PerfPanel

	sched    Scheduler
	state    ui.ControlsState
	actions  ui.Actions
	showPerf bool
	status   string

	hoverCol, hoverRow int
	hovering           bool

	screenWidth, screenHeight float32
}

// New creates a viewer for sim. It starts paused.
func New(sim *game.Simulation, opts Options) *Viewer {
	if opts.Title == "" {
		opts.Title = "EcoSim"
	}
	if opts.MaxRunTicks <= 0 {
		opts.MaxRunTicks = 100
	}
	if opts.SaveMapPath == "" {
		opts.SaveMapPath = "saved_map.txt"
	}

	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	v := &Viewer{
		sim:          sim,
		opts:         opts,
		grid:         renderer.NewGridRenderer(opts.CellSize, sim.Seed()),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(int32(w)-panelWidth-10, 10, panelWidth),
		legend:       ui.NewLegendPanel(int32(w)-panelWidth-10, 0, panelWidth),
		inspector:    ui.NewInspector(int32(w)-panelWidth-10, 0, panelWidth),
		perf:         ui.NewPerfPanel(10, 130),
		sched:        Scheduler{Delay: opts.StepDelay, Paused: true},
		screenWidth:  w,
		screenHeight: h,
	}
	v.state = ui.ControlsState{
		Ticks:    min(max(1, opts.DefaultTicks), opts.MaxRunTicks),
		MaxTicks: opts.MaxRunTicks,
		Paused:   true,
		Slot:     opts.SlotName,
		SlotsOK:  opts.Slots.Available() && opts.SlotName != "",
	}
	v.resetCamera()
	return v
}

// resetCamera fits a new camera to the current grid.
func (v *Viewer) resetCamera() {
	ww, wh := v.grid.WorldSize(v.sim)
	v.cam = camera.New(v.screenWidth, v.screenHeight, ww, wh)
	v.cam.Fit()
}

// Update handles input, applies the previous frame's control actions and
// advances the simulation.
func (v *Viewer) Update() {
	v.handleInput()
	v.applyActions()

	dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	for range v.sched.Advance(dt) {
		v.sim.Step()
	}
	v.state.Paused = v.sched.Paused
	v.state.Busy = v.sched.Pending() > 0
}

func (v *Viewer) applyActions() {
	a := v.actions
	v.actions = ui.Actions{}
	if !a.Any() {
		return
	}

	switch {
	case a.Step:
		if !v.sched.Active() {
			v.sim.Step()
		}
	case a.Run > 0:
		v.sched.Queue(a.Run)
	case a.TogglePlay:
		v.sched.Paused = !v.sched.Paused
	case a.SaveMap:
		v.report(v.sim.SaveMap(v.opts.SaveMapPath), "map saved to "+v.opts.SaveMapPath)
	case a.SaveSlot:
		v.report(v.sim.SaveSlot(v.opts.Slots, v.opts.SlotName), "saved slot "+v.opts.SlotName)
	case a.LoadSlot:
		v.sched.Cancel()
		if v.report(v.sim.LoadSlot(v.opts.Slots, v.opts.SlotName), "loaded slot "+v.opts.SlotName) {
			v.resetCamera()
		}
	}
}

// report records the outcome of a user action for the HUD.
func (v *Viewer) report(err error, ok string) bool {
	if err != nil {
		v.status = err.Error()
		slog.Warn("viewer action failed", "error", err)
		return false
	}
	v.status = ok
	return true
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.actions.TogglePlay = true
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.actions.Step = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.actions.Run = v.state.Ticks
	}
	if rl.IsKeyPressed(rl.KeyX) {
		v.sched.Cancel()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.sched.Slower()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.sched.Faster()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}

	v.handleCameraInput()

	mouse := rl.GetMousePosition()
	v.hoverCol, v.hoverRow, v.hovering = v.cam.CellAt(mouse.X, mouse.Y, v.grid.CellSize())
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.cam.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / v.cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1.0 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Fit()
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	v.sim.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.grid.Draw(v.sim, v.cam)
	if v.hovering {
		v.grid.Highlight(v.hoverCol, v.hoverRow, v.cam)
	}

	v.hud.Draw(ui.HUDData{
		Title:      v.opts.Title,
		Population: v.sim.Census(),
		Tick:       v.sim.Tick(),
		Seed:       v.sim.Seed(),
		Pending:    v.sched.Pending(),
		FPS:        rl.GetFPS(),
		Paused:     v.sched.Paused,
		Status:     v.status,
	})
	v.hud.DrawControls(int32(v.screenWidth), int32(v.screenHeight),
		fmt.Sprintf("[Space] play/pause  [S] step  [R] run  [X] stop  [,/.] speed (%v/tick)  [arrows/wheel] camera  [Home] fit  [P] perf",
			v.sched.Delay))

	if v.showPerf {
		v.perf.Draw(ui.PerfPanelData{Stats: v.sim.PerfStats(), Registry: v.sim.Registry()})
	}

	x := int32(v.screenWidth) - panelWidth - 10
	v.controls.SetPosition(x, 10)
	actions, y := v.controls.Draw(&v.state)
	v.actions = mergeActions(v.actions, actions)

	v.legend.SetPosition(x, y+10)
	y = v.legend.Draw(renderer.ColorFor)

	if v.hovering {
		if info, ok := v.sim.Inspect(components.Position{X: v.hoverCol, Y: v.hoverRow}); ok {
			v.inspector.SetPosition(x, y+10)
			v.inspector.Draw(info)
		}
	}

	rl.EndDrawing()
}

// mergeActions combines keyboard and panel requests for one frame.
func mergeActions(a, b ui.Actions) ui.Actions {
	return ui.Actions{
		Step:       a.Step || b.Step,
		Run:        max(a.Run, b.Run),
		TogglePlay: a.TogglePlay || b.TogglePlay,
		SaveMap:    a.SaveMap || b.SaveMap,
		SaveSlot:   a.SaveSlot || b.SaveSlot,
		LoadSlot:   a.LoadSlot || b.LoadSlot,
	}
}
