package ui

import (
	"fmt"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
)

// CellSections describes the cell inspector layout. Data is a game.CellInfo.
func CellSections() []SectionDescriptor {
	cell := func(d any) game.CellInfo { return d.(game.CellInfo) }
	return []SectionDescriptor{
		{
			ID:    "cell",
			Title: "Cell",
			Fields: []FieldDescriptor{
				{ID: "position", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
					return cell(d).Position.String()
				}},
				{ID: "terrain", Label: "Terrain", Widget: WidgetText, TextGetter: func(d any) string {
					return terrainName(cell(d).Terrain)
				}},
			},
		},
		{
			ID:      "plant",
			Title:   "Plant",
			Visible: func(d any) bool { return cell(d).Plant != nil },
			Fields: []FieldDescriptor{
				{ID: "plant_species", Label: "Species", Widget: WidgetText, TextGetter: func(d any) string {
					return string(cell(d).Plant.ID)
				}},
				{ID: "plant_energy", Label: "Energy", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", cell(d).Plant.Energy.Max)
				}},
				{ID: "plant_state", Label: "State", Widget: WidgetText, TextGetter: func(d any) string {
					g := cell(d).Plant.Growth
					if g.Grown {
						return "grown"
					}
					return fmt.Sprintf("regrowing %d/%d", g.Timer, g.Threshold)
				}},
				{ID: "plant_regrowth", Label: "Regrowth", Widget: WidgetBar,
					Visible: func(d any) bool { return !cell(d).Plant.Growth.Grown },
					Getter: func(d any) float32 {
						g := cell(d).Plant.Growth
						return float32(g.Timer) / float32(max(1, g.Threshold))
					}},
			},
		},
		{
			ID:      "animal",
			Title:   "Animal",
			Visible: func(d any) bool { return cell(d).Animal != nil },
			Fields: []FieldDescriptor{
				{ID: "animal_species", Label: "Species", Widget: WidgetText, TextGetter: func(d any) string {
					a := cell(d).Animal
					return fmt.Sprintf("%c (%s)", a.ID, a.Kind)
				}},
				{ID: "animal_diet", Label: "Diet", Widget: WidgetText, TextGetter: func(d any) string {
					return cell(d).Animal.Diet.String()
				}},
				{ID: "animal_energy", Label: "Energy", Widget: WidgetEnergyBar, EnergyGetter: func(d any) (int, int) {
					e := cell(d).Animal.Energy
					return e.Current, e.Max
				}},
			},
		},
	}
}

func terrainName(t components.Terrain) string {
	switch t {
	case components.TerrainWater:
		return "water"
	case components.TerrainObstacle:
		return "obstacle"
	default:
		return "open"
	}
}

// Inspector renders the hovered cell panel.
type Inspector struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		sections: CellSections(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for a cell and returns the bottom edge.
func (ins *Inspector) Draw(info game.CellInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, info)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, info, ins.width-padding*2)
	}
	return ins.y + height
}
