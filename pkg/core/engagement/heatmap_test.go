package engagement

import (
	"math"
	"testing"
	"time"
)

func ev(doc, viewer string, page int, seconds float64) ViewEvent {
	return ViewEvent{
		ListingID:  "listing-1",
		DocumentID: doc,
		ViewerID:   viewer,
		Page:       page,
		Seconds:    seconds,
		ViewedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildHeatMapsEmpty(t *testing.T) {
	if maps := BuildHeatMaps(nil); len(maps) != 0 {
		t.Errorf("expected no heat maps for no events, got %d", len(maps))
	}
}

func TestBuildHeatMapsAggregation(t *testing.T) {
	events := []ViewEvent{
		ev("prospekt.pdf", "buyer-a", 1, 30),
		ev("prospekt.pdf", "buyer-a", 1, 30),
		ev("prospekt.pdf", "buyer-b", 2, 90),
		ev("prospekt.pdf", "buyer-b", 5, 15),
	}

	maps := BuildHeatMaps(events)
	if len(maps) != 1 {
		t.Fatalf("expected 1 heat map, got %d", len(maps))
	}
	hm := maps[0]
	if hm.DocumentID != "prospekt.pdf" {
		t.Errorf("document id = %q", hm.DocumentID)
	}
	if hm.ListingID != "listing-1" {
		t.Errorf("listing id = %q", hm.ListingID)
	}
	if hm.UniqueViewers != 2 {
		t.Errorf("unique viewers = %d, want 2", hm.UniqueViewers)
	}
	if hm.TotalSeconds != 165 {
		t.Errorf("total seconds = %.1f, want 165", hm.TotalSeconds)
	}
	if len(hm.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(hm.Pages))
	}

	// Pages come back sorted by page number.
	if hm.Pages[0].Page != 1 || hm.Pages[1].Page != 2 || hm.Pages[2].Page != 5 {
		t.Errorf("pages out of order: %+v", hm.Pages)
	}

	p1 := hm.Pages[0]
	if p1.Views != 2 || p1.Seconds != 60 {
		t.Errorf("page 1 = %+v, want 2 views / 60s", p1)
	}

	// Page 2 has the most seconds, so intensity 1.0; page 1 is 60/90.
	if hm.Pages[1].Intensity != 1.0 {
		t.Errorf("hottest page intensity = %.3f, want 1.0", hm.Pages[1].Intensity)
	}
	if math.Abs(p1.Intensity-60.0/90.0) > 1e-9 {
		t.Errorf("page 1 intensity = %.3f, want %.3f", p1.Intensity, 60.0/90.0)
	}
}

func TestBuildHeatMapsMultipleDocumentsSorted(t *testing.T) {
	events := []ViewEvent{
		ev("b-avtal.pdf", "buyer-a", 1, 10),
		ev("a-bokslut.pdf", "buyer-a", 1, 20),
	}
	maps := BuildHeatMaps(events)
	if len(maps) != 2 {
		t.Fatalf("expected 2 heat maps, got %d", len(maps))
	}
	if maps[0].DocumentID != "a-bokslut.pdf" || maps[1].DocumentID != "b-avtal.pdf" {
		t.Errorf("documents not sorted: %s, %s", maps[0].DocumentID, maps[1].DocumentID)
	}
}

func TestBuildHeatMapsZeroSeconds(t *testing.T) {
	maps := BuildHeatMaps([]ViewEvent{ev("doc", "v", 1, 0)})
	if len(maps) != 1 {
		t.Fatalf("expected 1 heat map, got %d", len(maps))
	}
	// No division by zero when nothing was read for any length of time.
	if maps[0].Pages[0].Intensity != 0 {
		t.Errorf("intensity = %.3f, want 0", maps[0].Pages[0].Intensity)
	}
}
