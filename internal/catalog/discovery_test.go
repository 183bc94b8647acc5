package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister is a scriptable Lister for discovery tests.
type fakeLister struct {
	mu    sync.Mutex
	infos []BackendInfo
	err   error
	calls int
}

func (f *fakeLister) ListBackends(_ context.Context) ([]BackendInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.infos, nil
}

func (f *fakeLister) SafeDefault() string { return "model-1.5-flash" }

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func gen(id string) BackendInfo {
	return BackendInfo{ID: id, SupportsGeneration: true}
}

func TestSnapshot_FiltersAndRanks(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{
		gen("model-1.5-flash"),
		gen("model-2.0-pro"),
		gen("model-2.0-flash"),
		gen("model-2.0-flash"), // duplicate
		gen("text-embedding-004"),
		{ID: "model-3.0-pro", SupportsGeneration: false},
	}}

	d := New(lister, Config{})
	snap := d.Snapshot(context.Background())

	want := []string{"model-2.0-pro", "model-2.0-flash", "model-1.5-flash"}
	if diff := cmp.Diff(want, snap.IDs()); diff != "" {
		t.Errorf("candidate order mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_CachedWithinTTL(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{gen("model-2.0-pro")}}

	clock := time.Now()
	d := New(lister, Config{TTL: time.Hour})
	d.now = func() time.Time { return clock }

	first := d.Snapshot(context.Background())

	clock = clock.Add(30 * time.Minute)
	second := d.Snapshot(context.Background())

	assert.Same(t, first, second, "snapshot must be reused within the TTL")
	assert.Equal(t, 1, lister.callCount())
}

func TestSnapshot_RefreshesAfterTTL(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{gen("model-2.0-pro")}}

	clock := time.Now()
	d := New(lister, Config{TTL: time.Hour})
	d.now = func() time.Time { return clock }

	d.Snapshot(context.Background())

	lister.mu.Lock()
	lister.infos = []BackendInfo{gen("model-3.0-pro")}
	lister.mu.Unlock()

	clock = clock.Add(2 * time.Hour)
	snap := d.Snapshot(context.Background())

	require.Equal(t, []string{"model-3.0-pro"}, snap.IDs())
	assert.Equal(t, 2, lister.callCount())
}

func TestSnapshot_SafeDefaultOnError(t *testing.T) {
	lister := &fakeLister{err: errors.New("upstream unavailable")}

	d := New(lister, Config{})
	snap := d.Snapshot(context.Background())

	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "model-1.5-flash", snap.Candidates[0].ID)
}

func TestSnapshot_SafeDefaultOnEmptyListing(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{
		gen("text-embedding-004"), // filtered out
	}}

	d := New(lister, Config{})
	snap := d.Snapshot(context.Background())

	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "model-1.5-flash", snap.Candidates[0].ID)
}

func TestRefresh_RetainsPreviousCatalogOnFailure(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{gen("model-2.0-pro"), gen("model-2.0-flash")}}

	d := New(lister, Config{})
	first := d.Refresh(context.Background())
	require.Equal(t, 2, first.Len())

	lister.mu.Lock()
	lister.err = errors.New("listing quota exceeded")
	lister.mu.Unlock()

	snap := d.Refresh(context.Background())

	// A known-good catalog beats the single safe default.
	if diff := cmp.Diff(first.IDs(), snap.IDs()); diff != "" {
		t.Errorf("previous catalog not retained (-want +got):\n%s", diff)
	}
	assert.False(t, snap.FetchedAt.Before(first.FetchedAt))
}

func TestRefresh_ForcesListingWithinTTL(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{gen("model-2.0-pro")}}

	d := New(lister, Config{TTL: time.Hour})
	d.Snapshot(context.Background())
	d.Refresh(context.Background())

	assert.Equal(t, 2, lister.callCount())
}

func TestSnapshot_ConcurrentCallersShareOneRefresh(t *testing.T) {
	lister := &fakeLister{infos: []BackendInfo{gen("model-2.0-pro")}}
	d := New(lister, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := d.Snapshot(context.Background())
			assert.GreaterOrEqual(t, snap.Len(), 1)
		}()
	}
	wg.Wait()

	// singleflight may admit a second listing if goroutines race past the
	// cache check, but 20 callers must not mean 20 upstream calls.
	assert.LessOrEqual(t, lister.callCount(), 2)
}
