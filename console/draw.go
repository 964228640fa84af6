package console

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	bannerStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	textStyle   = tcell.StyleDefault
)

// layout is the screen split: banner on top, map box, log and prompt below.
type layout struct {
	width, height  int
	boxTop, boxBot int // map box rows, inclusive
	mapX, mapY     int // screen cell of grid (0,0)
	logTop         int
	promptRow      int
}

func (c *Console) layout() layout {
	w, h := c.screen.Size()
	l := layout{width: w, height: h}
	l.promptRow = h - 1
	l.logTop = h - logHeight
	l.boxTop = bannerRows
	l.boxBot = l.logTop - 1

	grid := c.sim.Grid()
	inner := l.boxBot - l.boxTop - 1
	l.mapX = max(1, (w-grid.Cols())/2)
	l.mapY = l.boxTop + 1 + max(0, (inner-grid.Rows())/2)
	return l
}

// MapOrigin returns the screen cell where grid (0,0) is drawn.
func (c *Console) MapOrigin() (x, y int) {
	l := c.layout()
	return l.mapX, l.mapY
}

func (c *Console) draw() {
	c.screen.Clear()
	l := c.layout()

	c.drawBanner(l)
	c.drawMap(l)
	for i, line := range c.log {
		c.drawText(1, l.logTop+i, textStyle, line)
	}
	c.drawText(0, l.promptRow, textStyle, c.prompt+string(c.input))
	if c.prompt != "" {
		c.screen.ShowCursor(len([]rune(c.prompt))+len(c.input), l.promptRow)
	} else {
		c.screen.HideCursor()
	}

	c.screen.Show()
}

func (c *Console) drawBanner(l layout) {
	for i, line := range banner {
		c.drawText(max(0, (l.width-len(line))/2), i, bannerStyle, line)
	}
	pop := c.sim.Census()
	status := fmt.Sprintf("tick %d | plants %d (%d grown) | herbivores %d | omnivores %d",
		c.sim.Tick(), pop.Plants, pop.GrownPlants, pop.Herbivores, pop.Omnivores)
	c.drawText(max(0, (l.width-len(status))/2), len(banner)+1, textStyle, status)
}

func (c *Console) drawMap(l layout) {
	c.drawBox(0, l.boxTop, l.width-1, l.boxBot)
	for v := range c.sim.Cells() {
		x, y := l.mapX+v.Position.X, l.mapY+v.Position.Y
		if x <= 0 || x >= l.width-1 || y <= l.boxTop || y >= l.boxBot {
			continue
		}
		c.screen.SetContent(x, y, v.Glyph, nil, StyleFor(v.Category))
	}
}

func (c *Console) drawBox(x0, y0, x1, y1 int) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.screen.SetContent(x, y0, tcell.RuneHLine, nil, borderStyle)
		c.screen.SetContent(x, y1, tcell.RuneHLine, nil, borderStyle)
	}
	for y := y0 + 1; y < y1; y++ {
		c.screen.SetContent(x0, y, tcell.RuneVLine, nil, borderStyle)
		c.screen.SetContent(x1, y, tcell.RuneVLine, nil, borderStyle)
	}
	c.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, borderStyle)
	c.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, borderStyle)
	c.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, borderStyle)
	c.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, borderStyle)
}

func (c *Console) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
