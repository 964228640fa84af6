package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkThresholds tunes the detectors.
type BookmarkThresholds struct {
	CrashDropFraction  float64 // fraction of the recent peak that must be lost
	CrashMinPopulation int     // peaks below this never crash
	StableWindows      int     // consecutive windows required
	StableMaxCV        float64 // max coefficient of variation per animal kind
}

// DefaultBookmarkThresholds returns the thresholds shipped in defaults.yaml.
func DefaultBookmarkThresholds() BookmarkThresholds {
	return BookmarkThresholds{
		CrashDropFraction:  0.5,
		CrashMinPopulation: 6,
		StableWindows:      5,
		StableMaxCV:        0.15,
	}
}

var animalKinds = []components.Kind{components.KindHerbivore, components.KindOmnivore}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	th BookmarkThresholds

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak [components.KindCount]int
	stable     bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, th BookmarkThresholds) *BookmarkDetector {
	if th.StableWindows < 2 {
		th.StableWindows = 2
	}
	if historySize < th.StableWindows {
		historySize = th.StableWindows
	}
	return &BookmarkDetector{
		th:          th,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		bookmarks = append(bookmarks, bd.checkExtinction(stats)...)
		bookmarks = append(bookmarks, bd.checkPopulationCrash(stats)...)
	}
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	for _, kind := range animalKinds {
		if n := population(stats, kind); n > bd.recentPeak[kind] {
			bd.recentPeak[kind] = n
		}
	}

	return bookmarks
}

func population(s WindowStats, kind components.Kind) int {
	switch kind {
	case components.KindHerbivore:
		return s.Herbivores
	case components.KindOmnivore:
		return s.Omnivores
	default:
		return s.Plants
	}
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	prev := bd.recent(1)[0]
	var out []Bookmark
	for _, kind := range animalKinds {
		before := population(prev, kind)
		if before > 0 && population(stats, kind) == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkExtinction,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s died out (%d in previous window)", kind, before),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) []Bookmark {
	var out []Bookmark
	for _, kind := range animalKinds {
		peak := bd.recentPeak[kind]
		n := population(stats, kind)
		// Extinction reports the zero case.
		if peak < bd.th.CrashMinPopulation || n == 0 {
			continue
		}
		drop := 1.0 - float64(n)/float64(peak)
		if drop >= bd.th.CrashDropFraction {
			bd.recentPeak[kind] = n
			out = append(out, Bookmark{
				Type:        BookmarkPopulationCrash,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s crashed %.0f%% from peak %d to %d", kind, drop*100, peak, n),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Herbivores == 0 || stats.Omnivores == 0 {
		bd.stable = false
		return nil
	}

	window := append(bd.recent(bd.th.StableWindows-1), stats)
	if len(window) < bd.th.StableWindows {
		return nil
	}

	isStable := true
	for _, kind := range animalKinds {
		counts := make([]float64, len(window))
		for i, w := range window {
			counts[i] = float64(population(w, kind))
		}
		mean, std := stat.MeanStdDev(counts, nil)
		if mean == 0 || std/mean > bd.th.StableMaxCV {
			isStable = false
			break
		}
	}

	// Trigger once on entry into a stable stretch
	wasStable := bd.stable
	bd.stable = isStable
	if !isStable || wasStable {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableEcosystem,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d omnivores over %d windows", stats.Herbivores, stats.Omnivores, bd.th.StableWindows),
	}
}
