package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/mapgen"
	"github.com/pthm-cable/ecosim/renderer"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 320
	cellSize     = 16
)

// runPreview shows the generated map with parameter sliders. It returns the
// chosen parameters and whether the user asked to save.
func runPreview(p mapgen.Params, table loader.SpeciesTable) (mapgen.Params, bool) {
	rl.InitWindow(windowWidth, windowHeight, "Map Generator")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	grid := renderer.NewGridRenderer(cellSize, p.Seed)
	var sim *game.Simulation
	var cam *camera.Camera
	var genErr error
	needsRegen := true

	regenerate := func() {
		if sim != nil {
			sim.Close()
			sim = nil
		}
		sc, err := mapgen.Generate(p, table)
		if err == nil {
			sim, err = game.NewSimulation(game.DefaultOptions())
		}
		if err == nil {
			err = sim.Load(sc, table)
		}
		genErr = err
		if err != nil {
			return
		}
		ww, wh := grid.WorldSize(sim)
		cam = camera.New(windowWidth-panelWidth-20, windowHeight, ww, wh)
		cam.Fit()
	}
	defer func() {
		if sim != nil {
			sim.Close()
		}
	}()

	for !rl.WindowShouldClose() {
		if needsRegen {
			regenerate()
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, 15, 16, rl.Red)
		} else if sim != nil {
			grid.Draw(sim, cam)
			pop := sim.Census()
			rl.DrawText(fmt.Sprintf("Plants: %d  Herbivores: %d  Omnivores: %d", pop.Plants, pop.Herbivores, pop.Omnivores),
				15, windowHeight-30, 16, rl.LightGray)
		}

		// Control panel
		panelX := float32(windowWidth - panelWidth)
		panelY := float32(10)
		rl.DrawText("Generator Parameters", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		sliders := []struct {
			label    string
			value    *float64
			min, max float64
		}{
			{"Scale (noise frequency)", &p.Scale, 0.02, 0.5},
			{"Water threshold", &p.Water, 0, 1},
			{"Obstacle threshold", &p.Obstacle, 0, 1},
			{"Plants", &p.Plants, 0, 0.5},
			{"Herbivores", &p.Herbivores, 0, 0.2},
			{"Omnivores", &p.Omnivores, 0, 0.2},
		}
		for _, s := range sliders {
			rl.DrawText(fmt.Sprintf("%s: %.2f", s.label, *s.value), int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 80, Height: 20},
				fmt.Sprintf("%.2f", s.min), fmt.Sprintf("%.2f", s.max),
				float32(*s.value), float32(s.min), float32(s.max),
			)
			if float64(v) != float64(float32(*s.value)) {
				*s.value = float64(v)
				needsRegen = true
			}
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "New Seed") {
			p.Seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Reset") {
			d := mapgen.DefaultParams()
			d.Rows, d.Cols, d.Seed = p.Rows, p.Cols, p.Seed
			p = d
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 290, Height: 30}, "Save and Exit") && genErr == nil {
			rl.EndDrawing()
			return p, true
		}
		panelY += 40
		rl.DrawText(fmt.Sprintf("Seed: %d  Size: %dx%d", p.Seed, p.Cols, p.Rows), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.EndDrawing()
	}
	return p, false
}
