package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Population telemetry.Population
	Tick       int
	Seed       int64
	Pending    int // ticks left in the current run
	FPS        int32
	Paused     bool
	Status     string // last action result
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	pop := data.Population
	rl.DrawText(
		fmt.Sprintf("Plants: %d (%d grown) | Herbivores: %d | Omnivores: %d", pop.Plants, pop.GrownPlants, pop.Herbivores, pop.Omnivores),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Seed: %d | FPS: %d", data.Tick, data.Seed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	switch {
	case data.Pending > 0:
		statusText = fmt.Sprintf("Running (%d left)", data.Pending)
	case data.Paused:
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	if data.Status != "" {
		rl.DrawText(data.Status, 10, 95, 14, rl.Gray)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats    telemetry.PerfStats
	Registry *systems.SystemRegistry
}

// PerfPanel renders the system performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel, one line per registered system.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	stats := data.Stats
	rl.DrawText(fmt.Sprintf("Tick: %s (p95 %s) | TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	if data.Registry == nil {
		return
	}
	for _, info := range data.Registry.All() {
		ph, _ := stats.Phase(info.ID)
		pct := ph.Pct

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%% %6.1f", info.Name, ph.Avg.Round(time.Microsecond), pct, ph.Entities),
			x, y, 12, color,
		)
		y += 14
	}
}
