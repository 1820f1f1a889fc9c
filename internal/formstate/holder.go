package formstate

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/logger"
)

// Form is a draft type with path-based transitions.
type Form[D any] interface {
	With(path, value string) (D, error)
	Validate() core.Validation
	IsZero() bool
}

// Holder owns one module's draft and its durable mirror.
type Holder[D Form[D]] struct {
	store Store
	key   string
	empty func() D
	draft D
	log   *slog.Logger
}

// NewHolder returns a holder with an empty draft. Call Restore to load the
// stored one.
func NewHolder[D Form[D]](store Store, key string, empty func() D, log *slog.Logger) *Holder[D] {
	return &Holder[D]{
		store: store,
		key:   key,
		empty: empty,
		draft: empty(),
		log:   logger.Or(log).With("draft", key),
	}
}

// NewCaseStudyHolder holds a case study draft.
func NewCaseStudyHolder(store Store, key string, industry string, log *slog.Logger) *Holder[core.Draft] {
	return NewHolder(store, key, func() core.Draft {
		d := core.NewDraft()
		if industry != "" {
			d.Industry = industry
		}
		return d
	}, log)
}

// NewPresentationHolder holds a presentation draft.
func NewPresentationHolder(store Store, key string, log *slog.Logger) *Holder[core.PresentationDraft] {
	return NewHolder(store, key, func() core.PresentationDraft { return core.PresentationDraft{} }, log)
}

// Draft returns the current draft.
func (h *Holder[D]) Draft() D { return h.draft }

// Validation re-evaluates the current draft.
func (h *Holder[D]) Validation() core.Validation { return h.draft.Validate() }

// Update sets one field and persists the whole draft. A rejected path
// leaves the draft unchanged; a storage failure keeps the new value in
// memory and is returned.
func (h *Holder[D]) Update(path, value string) (D, error) {
	next, err := h.draft.With(path, value)
	if err != nil {
		return h.draft, err
	}
	h.draft = next
	return h.draft, h.persist()
}

// Apply runs an arbitrary transition, such as removing a list row.
func (h *Holder[D]) Apply(fn func(D) (D, error)) (D, error) {
	next, err := fn(h.draft)
	if err != nil {
		return h.draft, err
	}
	h.draft = next
	return h.draft, h.persist()
}

// Replace swaps in a complete draft, e.g. one imported from a file.
func (h *Holder[D]) Replace(d D) error {
	h.draft = d
	return h.persist()
}

// Reset clears the draft and removes its stored entry.
func (h *Holder[D]) Reset() error {
	h.draft = h.empty()
	if err := h.store.Delete(h.key); err != nil {
		return fmt.Errorf("failed to clear stored draft: %w", err)
	}
	return nil
}

// Restore loads the stored draft. Missing or malformed data leaves the
// draft empty; neither is reported as an error.
func (h *Holder[D]) Restore() D {
	data, ok, err := h.store.Load(h.key)
	if err != nil {
		h.log.Warn("failed to read stored draft", "error", err)
		return h.draft
	}
	if !ok {
		return h.draft
	}

	// Fields missing from the stored record keep their defaults.
	d := h.empty()
	if err := json.Unmarshal(data, &d); err != nil {
		h.log.Debug("ignoring malformed stored draft", "error", err)
		return h.draft
	}
	h.draft = d
	return h.draft
}

func (h *Holder[D]) persist() error {
	data, err := json.Marshal(h.draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := h.store.Save(h.key, data); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}
