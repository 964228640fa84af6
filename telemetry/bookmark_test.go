package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, b := range bookmarks {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	bd.Check(WindowStats{WindowEndTick: 10, Herbivores: 5, Omnivores: 4})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 20, Herbivores: 0, Omnivores: 4})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Fatalf("expected extinction bookmark, got %v", bookmarks)
	}
	if bookmarks[0].Tick != 20 {
		t.Errorf("tick = %d, want 20", bookmarks[0].Tick)
	}
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("extinction should not also report a crash")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 30, Herbivores: 0, Omnivores: 4})
	if hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	bd.Check(WindowStats{WindowEndTick: 10, Herbivores: 20, Omnivores: 4})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 20, Herbivores: 8, Omnivores: 4})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Fatalf("expected population_crash bookmark, got %v", bookmarks)
	}

	// Peak resets after the crash
	bookmarks = bd.Check(WindowStats{WindowEndTick: 30, Herbivores: 8, Omnivores: 4})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash reported again without a new drop")
	}
}

func TestBookmarkDetector_SmallPopulationsDoNotCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	bd.Check(WindowStats{WindowEndTick: 10, Herbivores: 4, Omnivores: 4})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 20, Herbivores: 1, Omnivores: 4})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash reported below minimum population")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	th := DefaultBookmarkThresholds()
	th.StableWindows = 3
	bd := NewBookmarkDetector(10, th)

	var fired []int
	for i := 1; i <= 5; i++ {
		stats := WindowStats{WindowEndTick: i * 10, Herbivores: 10, Omnivores: 5}
		if hasBookmark(bd.Check(stats), BookmarkStableEcosystem) {
			fired = append(fired, stats.WindowEndTick)
		}
	}
	if len(fired) != 1 || fired[0] != 30 {
		t.Errorf("stable_ecosystem fired at %v, want [30]", fired)
	}
}

func TestBookmarkDetector_UnstableEcosystem(t *testing.T) {
	th := DefaultBookmarkThresholds()
	th.StableWindows = 3
	bd := NewBookmarkDetector(10, th)

	herbs := []int{10, 30, 10, 30, 10}
	for i, h := range herbs {
		stats := WindowStats{WindowEndTick: (i + 1) * 10, Herbivores: h, Omnivores: 5}
		if hasBookmark(bd.Check(stats), BookmarkStableEcosystem) {
			t.Fatalf("stable_ecosystem fired at window %d", i)
		}
	}
}
