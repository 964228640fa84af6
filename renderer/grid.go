// Package renderer draws the simulation grid with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
)

var (
	background = rl.Color{R: 18, G: 22, B: 26, A: 255}
	gridLine   = rl.Color{R: 34, G: 40, B: 46, A: 255}
)

// ColorFor returns the base fill color of a cell category.
func ColorFor(cat components.Category) rl.Color {
	switch cat {
	case components.CategoryWater:
		return rl.Color{R: 40, G: 90, B: 200, A: 255}
	case components.CategoryObstacle:
		return rl.Color{R: 170, G: 50, B: 50, A: 255}
	case components.CategoryPlant:
		return rl.Color{R: 60, G: 170, B: 70, A: 255}
	case components.CategoryPlantUngrown:
		return rl.Color{R: 60, G: 160, B: 160, A: 255}
	case components.CategoryHerbivore:
		return rl.Color{R: 230, G: 200, B: 50, A: 255}
	case components.CategoryOmnivore:
		return rl.Color{R: 200, G: 70, B: 200, A: 255}
	default:
		return background
	}
}

// Shade scales the RGB channels of c by f, clamped to [0, 255].
func Shade(c rl.Color, f float32) rl.Color {
	scale := func(v uint8) uint8 {
		x := float32(v) * f
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return uint8(x)
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// GridRenderer draws cells as colored squares. Terrain and plants get a
// noise-based shade so large areas do not look flat; animals are dimmed as
// their energy drops.
type GridRenderer struct {
	cellSize float32
	noise    opensimplex.Noise
}

// NewGridRenderer creates a renderer for cells of the given pixel size.
func NewGridRenderer(cellSize int, seed int64) *GridRenderer {
	return &GridRenderer{
		cellSize: float32(max(1, cellSize)),
		noise:    opensimplex.NewNormalized(seed),
	}
}

// CellSize returns the cell edge length in world pixels.
func (r *GridRenderer) CellSize() float32 { return r.cellSize }

// WorldSize returns the grid extent in world pixels.
func (r *GridRenderer) WorldSize(sim *game.Simulation) (w, h float32) {
	g := sim.Grid()
	return float32(g.Cols()) * r.cellSize, float32(g.Rows()) * r.cellSize
}

// CellColor returns the fill color of a rendered cell.
func (r *GridRenderer) CellColor(v game.CellView) rl.Color {
	base := ColorFor(v.Category)
	switch v.Category {
	case components.CategoryHerbivore, components.CategoryOmnivore:
		// Keep starving animals visible.
		return Shade(base, 0.4+0.6*float32(v.Energy.Fraction()))
	case components.CategoryEmpty:
		return base
	default:
		n := r.noise.Eval2(float64(v.Position.X)*0.35, float64(v.Position.Y)*0.35)
		return Shade(base, 0.85+0.3*float32(n))
	}
}

// Draw renders every visible cell through cam.
func (r *GridRenderer) Draw(sim *game.Simulation, cam *camera.Camera) {
	ww, wh := r.WorldSize(sim)
	x0, y0 := cam.WorldToScreen(0, 0)
	rl.DrawRectangle(int32(x0), int32(y0), int32(ww*cam.Zoom), int32(wh*cam.Zoom), background)

	size := r.cellSize * cam.Zoom
	half := r.cellSize / 2
	for v := range sim.Cells() {
		cx := float32(v.Position.X)*r.cellSize + half
		cy := float32(v.Position.Y)*r.cellSize + half
		if !cam.IsVisible(cx, cy, half) {
			continue
		}
		sx, sy := cam.WorldToScreen(cx-half, cy-half)
		if v.Category != components.CategoryEmpty {
			rl.DrawRectangle(int32(sx), int32(sy), int32(size)+1, int32(size)+1, r.CellColor(v))
		}
		if size >= 12 && v.Category.IsOccupied() {
			// Species id on top of the fill, as in map files.
			font := int32(size * 0.6)
			text := string(v.Glyph)
			tw := rl.MeasureText(text, font)
			rl.DrawText(text, int32(sx+size/2)-tw/2, int32(sy+size/2)-font/2, font, rl.Black)
		}
	}

	rl.DrawRectangleLines(int32(x0), int32(y0), int32(ww*cam.Zoom), int32(wh*cam.Zoom), gridLine)
}

// Highlight outlines one cell.
func (r *GridRenderer) Highlight(col, row int, cam *camera.Camera) {
	sx, sy := cam.WorldToScreen(float32(col)*r.cellSize, float32(row)*r.cellSize)
	size := r.cellSize * cam.Zoom
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 2, rl.White)
}
