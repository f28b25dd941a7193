package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/models"
	"github.com/wolfeidau/surplus/internal/telemetry"
)

// Source fetches the raw catalog.
type Source interface {
	ListFoods(ctx context.Context) ([]models.Food, error)
}

// Status is the loading state of a View.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// View keeps the visible list in step with the items and the filter state.
// Every change recomputes the list synchronously and passes it to the
// change callback; no network call is made for a filter change.
type View struct {
	opts     NormalizeOptions
	onChange func([]Item)

	mu         sync.Mutex
	items      []Item
	filters    FilterState
	visible    []Item
	status     Status
	err        error
	generation uint64
}

// NewView creates a view with default filters. onChange may be nil.
func NewView(opts NormalizeOptions, onChange func([]Item)) *View {
	if onChange == nil {
		onChange = func([]Item) {}
	}
	return &View{
		opts:     opts,
		onChange: onChange,
		filters:  DefaultFilters(),
		visible:  []Item{},
	}
}

// Load fetches the catalog once and replaces the items. If another Load
// starts, or the view is closed, before the fetch returns, the response is
// dropped and Load returns nil.
func (v *View) Load(ctx context.Context, src Source) error {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.status = StatusLoading
	v.err = nil
	v.mu.Unlock()

	foods, err := src.ListFoods(ctx)

	v.mu.Lock()
	if gen != v.generation {
		v.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("dropping stale catalog response")
		return nil
	}

	if err != nil {
		v.status = StatusFailed
		v.err = err
		v.mu.Unlock()
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	items := NormalizeAll(foods, v.opts)
	telemetry.GetMetrics().CatalogItemsLoaded.Add(ctx, int64(len(items)))

	v.items = items
	v.status = StatusReady
	visible := v.recomputeLocked()
	v.mu.Unlock()

	log.Debug().Int("items", len(items)).Int("visible", len(visible)).Msg("catalog loaded")

	v.onChange(visible)
	return nil
}

// SetItems replaces the items without fetching.
func (v *View) SetItems(items []Item) {
	v.mu.Lock()
	v.items = slices.Clone(items)
	v.status = StatusReady
	visible := v.recomputeLocked()
	v.mu.Unlock()

	v.onChange(visible)
}

// Update applies fn to the filter state and recomputes.
func (v *View) Update(fn func(*FilterState)) {
	v.mu.Lock()
	fn(&v.filters)
	visible := v.recomputeLocked()
	v.mu.Unlock()

	v.onChange(visible)
}

// Filters returns a copy of the filter state.
func (v *View) Filters() FilterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters.Clone()
}

// Visible returns a copy of the visible list.
func (v *View) Visible() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.visible)
}

// Status returns the loading state and the last load error.
func (v *View) Status() (Status, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status, v.err
}

// Close drops any in-flight load.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
}

func (v *View) recomputeLocked() []Item {
	telemetry.GetMetrics().CatalogRecomputesTotal.Add(context.Background(), 1)
	v.visible = ComputeVisible(v.items, v.filters)
	return slices.Clone(v.visible)
}
