package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryLimit is how many versions are kept per module.
const HistoryLimit = 3

// VersionEntry records one generated artifact.
type VersionEntry struct {
	ID         string      `json:"id"`
	Artifact   Artifact    `json:"-"`
	Timestamp  time.Time   `json:"timestamp"`
	Kind       VersionKind `json:"kind"`
	Feedback   string      `json:"feedback,omitempty"`
	SlideIndex *int        `json:"slideIndex,omitempty"` // Set for slide refinements
}

// VersionMeta is the optional context attached to a pushed version.
type VersionMeta struct {
	Feedback   string
	SlideIndex *int
}

// History is a bounded, most-recent-first stack of generated versions.
// It is not safe for concurrent use; the owning session serializes access.
type History struct {
	entries []VersionEntry
	limit   int
	now     func() time.Time
}

// NewHistory returns an empty stack holding at most HistoryLimit entries.
func NewHistory() *History {
	return &History{limit: HistoryLimit, now: time.Now}
}

// WithClock replaces the timestamp source. Used by tests.
func (h *History) WithClock(now func() time.Time) *History {
	h.now = now
	return h
}

// Push prepends a version and drops the oldest entries past the limit.
func (h *History) Push(a Artifact, kind VersionKind, meta VersionMeta) VersionEntry {
	entry := VersionEntry{
		ID:         uuid.NewString(),
		Artifact:   a,
		Timestamp:  h.now().UTC(),
		Kind:       kind,
		Feedback:   meta.Feedback,
		SlideIndex: meta.SlideIndex,
	}

	entries := make([]VersionEntry, 0, h.limit)
	entries = append(entries, entry)
	for _, e := range h.entries {
		if len(entries) == h.limit {
			break
		}
		entries = append(entries, e)
	}
	h.entries = entries
	return entry
}

// Restore returns the artifact at index without changing the order.
func (h *History) Restore(index int) (Artifact, error) {
	if index < 0 || index >= len(h.entries) {
		return nil, &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("no version %d (have %d)", index, len(h.entries)),
		}
	}
	return h.entries[index].Artifact, nil
}

// Entries returns a copy of the stack, most recent first.
func (h *History) Entries() []VersionEntry {
	return append([]VersionEntry(nil), h.entries...)
}

// Latest returns the most recent entry.
func (h *History) Latest() (VersionEntry, bool) {
	if len(h.entries) == 0 {
		return VersionEntry{}, false
	}
	return h.entries[0], true
}

func (h *History) Len() int { return len(h.entries) }

// Reset empties the stack.
func (h *History) Reset() { h.entries = nil }
