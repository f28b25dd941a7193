package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/surplus/internal/models"
)

type sourceFunc func(ctx context.Context) ([]models.Food, error)

func (f sourceFunc) ListFoods(ctx context.Context) ([]models.Food, error) { return f(ctx) }

func staticSource(foods ...models.Food) Source {
	return sourceFunc(func(context.Context) ([]models.Food, error) { return foods, nil })
}

// blockingSource returns foods once release is closed and signals started
// when called.
type blockingSource struct {
	foods   []models.Food
	started chan struct{}
	release chan struct{}
}

func newBlockingSource(foods ...models.Food) *blockingSource {
	return &blockingSource{foods: foods, started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingSource) ListFoods(context.Context) ([]models.Food, error) {
	close(b.started)
	<-b.release
	return b.foods, nil
}

type changeRecorder struct {
	mu    sync.Mutex
	calls [][]Item
}

func (r *changeRecorder) record(items []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, items)
}

func (r *changeRecorder) last() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func (r *changeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestView_Load(t *testing.T) {
	rec := &changeRecorder{}
	v := NewView(NormalizeOptions{}, rec.record)

	status, err := v.Status()
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, status)
	assert.Empty(t, v.Visible())

	err = v.Load(context.Background(), staticSource(
		models.Food{ID: "a", Name: "Bread", Price: 10000},
		models.Food{ID: "b", Name: "Fish", Price: 50000},
	))
	require.NoError(t, err)

	status, err = v.Status()
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, []string{"a", "b"}, ids(v.Visible()))
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, []string{"a", "b"}, ids(rec.last()))
}

func TestView_LoadError(t *testing.T) {
	v := NewView(NormalizeOptions{}, nil)
	boom := errors.New("connection refused")

	err := v.Load(context.Background(), sourceFunc(func(context.Context) ([]models.Food, error) {
		return nil, boom
	}))
	require.ErrorIs(t, err, boom)

	status, lastErr := v.Status()
	assert.Equal(t, StatusFailed, status)
	assert.ErrorIs(t, lastErr, boom)
	assert.Empty(t, v.Visible())
}

func TestView_FilterChangesRecompute(t *testing.T) {
	rec := &changeRecorder{}
	v := NewView(NormalizeOptions{}, rec.record)
	v.SetItems([]Item{
		{ID: "1", Title: "Croissant", CategoryName: "Bakery", Price: 10000},
		{ID: "2", Title: "Salmon", CategoryName: "Seafood", Price: 50000},
	})

	v.Update(func(f *FilterState) {
		f.ToggleCategory("Bakery")
	})

	assert.Equal(t, []string{"1"}, ids(v.Visible()))
	assert.Equal(t, []string{"1"}, ids(rec.last()))
	assert.Equal(t, []string{"Bakery"}, v.Filters().Categories)

	v.Update(func(f *FilterState) {
		f.Clear()
		f.SetSort(SortPriceHigh)
	})

	assert.Equal(t, []string{"2", "1"}, ids(v.Visible()))
	assert.Equal(t, 3, rec.count())
}

func TestView_FiltersReturnsCopy(t *testing.T) {
	v := NewView(NormalizeOptions{}, nil)
	v.Update(func(f *FilterState) { f.ToggleTag("vegan") })

	f := v.Filters()
	f.Tags[0] = "changed"

	assert.Equal(t, []string{"vegan"}, v.Filters().Tags)
}

func TestView_DropsStaleLoad(t *testing.T) {
	rec := &changeRecorder{}
	v := NewView(NormalizeOptions{}, rec.record)

	slow := newBlockingSource(models.Food{ID: "stale", Price: 1000})

	done := make(chan error, 1)
	go func() {
		done <- v.Load(context.Background(), slow)
	}()
	<-slow.started

	require.NoError(t, v.Load(context.Background(), staticSource(models.Food{ID: "fresh", Price: 1000})))

	close(slow.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"fresh"}, ids(v.Visible()))
	assert.Equal(t, 1, rec.count(), "stale response must not notify")

	status, err := v.Status()
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
}

func TestView_CloseDropsInFlightLoad(t *testing.T) {
	rec := &changeRecorder{}
	v := NewView(NormalizeOptions{}, rec.record)

	slow := newBlockingSource(models.Food{ID: "late", Price: 1000})

	done := make(chan error, 1)
	go func() {
		done <- v.Load(context.Background(), slow)
	}()
	<-slow.started

	v.Close()
	close(slow.release)
	require.NoError(t, <-done)

	assert.Empty(t, v.Visible())
	assert.Equal(t, 0, rec.count())
}
