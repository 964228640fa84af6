// Package console is the terminal front-end: a banner, the colored map, a
// message log and line prompts driving the simulation.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

var banner = []string{
	"#####  ####   ###    ####  #  #   #",
	"#     #      #   #  #      #  ## ##",
	"####  #      #   #   ###   #  # # #",
	"#     #      #   #      #  #  #   #",
	"#####  ####   ###   ####   #  #   #",
}

const (
	logLines   = 5
	logHeight  = logLines + 1 // messages plus the prompt row
	bannerRows = 7            // banner, blank, status
)

// Options configures the interactive loop.
type Options struct {
	StepDelay    time.Duration // pause after each redraw while running
	DefaultTicks int           // used when the tick prompt is left empty
	Slots        *telemetry.SlotStore
}

// Console drives a simulation from a terminal screen.
type Console struct {
	screen tcell.Screen
	sim    *game.Simulation
	opts   Options

	log    []string
	prompt string
	input  []rune
}

// New creates a console on an initialised screen.
func New(screen tcell.Screen, sim *game.Simulation, opts Options) *Console {
	return &Console{screen: screen, sim: sim, opts: opts}
}

// StyleFor returns the display style of a cell category.
func StyleFor(cat components.Category) tcell.Style {
	s := tcell.StyleDefault
	switch cat {
	case components.CategoryWater:
		return s.Foreground(tcell.ColorBlue)
	case components.CategoryObstacle:
		return s.Foreground(tcell.ColorRed)
	case components.CategoryPlant:
		return s.Foreground(tcell.ColorGreen)
	case components.CategoryPlantUngrown:
		return s.Foreground(tcell.ColorTeal)
	case components.CategoryHerbivore:
		return s.Foreground(tcell.ColorYellow)
	case components.CategoryOmnivore:
		return s.Foreground(tcell.ColorPurple)
	default:
		return s
	}
}

// Run shows the map and loops: ask for a tick count, run it with a redraw
// after every tick, ask whether to continue. When the user stops it offers
// to save the map. Escape or Ctrl-C at any prompt quits without saving.
func (c *Console) Run(ctx context.Context) error {
	c.draw()

	for {
		n, ok := c.promptInt(fmt.Sprintf("How many ticks should the simulation run? [%d] ", c.opts.DefaultTicks), c.opts.DefaultTicks)
		if !ok {
			return nil
		}
		if err := c.runTicks(ctx, n); err != nil {
			return err
		}
		c.logf("Ran %d ticks, now at tick %d", n, c.sim.Tick())

		again, ok := c.promptChoice("Continue the simulation? (y/n) ", "y", "n")
		if !ok {
			return nil
		}
		if again == "n" {
			break
		}
	}

	save, ok := c.promptChoice("Save the map? (y/n) ", "y", "n")
	if !ok || save == "n" {
		return nil
	}
	for {
		target, ok := c.promptLine("Save to (file path, or @name for a save slot): ")
		if !ok {
			return nil
		}
		if err := c.save(strings.TrimSpace(target)); err != nil {
			c.logf("Save failed: %v", err)
			continue
		}
		return nil
	}
}

func (c *Console) runTicks(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.sim.Step()
		c.draw()
		if c.opts.StepDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.opts.StepDelay):
			}
		}
	}
	return nil
}

func (c *Console) save(target string) error {
	if target == "" {
		return fmt.Errorf("empty file name")
	}
	if name, ok := strings.CutPrefix(target, "@"); ok {
		if err := c.sim.SaveSlot(c.opts.Slots, name); err != nil {
			return err
		}
		c.logf("Saved to slot %q", name)
		return nil
	}
	if err := c.sim.SaveMap(target); err != nil {
		return err
	}
	c.logf("Map saved to %s", target)
	return nil
}

func (c *Console) logf(format string, args ...any) {
	c.log = append(c.log, fmt.Sprintf(format, args...))
	if len(c.log) > logLines {
		c.log = c.log[len(c.log)-logLines:]
	}
	c.draw()
}

// promptInt asks for a non-negative integer until one is given. Empty input
// selects def.
func (c *Console) promptInt(prompt string, def int) (int, bool) {
	for {
		s, ok := c.promptLine(prompt)
		if !ok {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return def, true
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 0 {
			return n, true
		}
		c.logf("Please enter a valid number")
	}
}

// promptChoice asks until the answer is one of allowed, ignoring case.
func (c *Console) promptChoice(prompt string, allowed ...string) (string, bool) {
	for {
		s, ok := c.promptLine(prompt)
		if !ok {
			return "", false
		}
		s = strings.ToLower(strings.TrimSpace(s))
		for _, a := range allowed {
			if s == a {
				return s, true
			}
		}
		c.logf("Please enter one of: %s", strings.Join(allowed, ", "))
	}
}

// promptLine reads one line of input. It reports false when the user
// cancels or the screen is closed.
func (c *Console) promptLine(prompt string) (string, bool) {
	c.prompt = prompt
	c.input = c.input[:0]
	defer func() {
		c.prompt = ""
		c.input = c.input[:0]
	}()
	c.draw()

	for {
		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return "", false
		case *tcell.EventResize:
			c.screen.Sync()
			c.draw()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return string(c.input), true
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return "", false
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(c.input) > 0 {
					c.input = c.input[:len(c.input)-1]
				}
			case tcell.KeyRune:
				c.input = append(c.input, ev.Rune())
			}
			c.draw()
		}
	}
}
