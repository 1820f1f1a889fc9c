package core

import (
	"testing"
	"time"
)

func TestHistoryKeepsThreeMostRecent(t *testing.T) {
	h := NewHistory()
	var pushed []*CaseStudy
	for _, title := range []string{"v1", "v2", "v3", "v4"} {
		cs := &CaseStudy{Title: title}
		pushed = append(pushed, cs)
		h.Push(cs, VersionRefinement, VersionMeta{})
	}

	if h.Len() != HistoryLimit {
		t.Fatalf("Len() = %d, want %d", h.Len(), HistoryLimit)
	}
	want := []string{"v4", "v3", "v2"}
	for i, e := range h.Entries() {
		if got := e.Artifact.Heading(); got != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got, want[i])
		}
	}

	got, err := h.Restore(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != Artifact(pushed[3]) {
		t.Error("Restore(0) is not the most recent artifact")
	}
}

func TestHistoryRestoreDoesNotReorder(t *testing.T) {
	h := NewHistory()
	h.Push(&CaseStudy{Title: "a"}, VersionInitial, VersionMeta{})
	h.Push(&CaseStudy{Title: "b"}, VersionRefinement, VersionMeta{Feedback: "punchier"})

	a, err := h.Restore(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Heading() != "a" {
		t.Errorf("Restore(1) = %q, want a", a.Heading())
	}
	if latest, _ := h.Latest(); latest.Artifact.Heading() != "b" {
		t.Errorf("Latest() = %q after restore, want b", latest.Artifact.Heading())
	}
}

func TestHistoryRestoreOutOfRange(t *testing.T) {
	h := NewHistory()
	for _, i := range []int{-1, 0, 3} {
		if _, err := h.Restore(i); err == nil {
			t.Errorf("Restore(%d) on empty history succeeded", i)
		}
	}
}

func TestHistoryEntryMetadata(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistory().WithClock(func() time.Time { return fixed })

	idx := 2
	e := h.Push(&Presentation{Title: "deck"}, VersionRefinement, VersionMeta{Feedback: "shorten this", SlideIndex: &idx})

	if e.ID == "" {
		t.Error("entry has no ID")
	}
	if !e.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, fixed)
	}
	if e.Kind != VersionRefinement || e.Feedback != "shorten this" {
		t.Errorf("entry = %+v", e)
	}
	if e.SlideIndex == nil || *e.SlideIndex != 2 {
		t.Errorf("SlideIndex = %v, want 2", e.SlideIndex)
	}

	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len() after Reset = %d", h.Len())
	}
}
