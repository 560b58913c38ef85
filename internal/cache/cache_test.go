package cache

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCategory(" Precursor-Mz ")
	require.NoError(t, err)
	assert.Equal(t, PrecursorMz, got)

	_, err = ParseCategory("peaks")
	assert.Error(t, err)
}

func TestMapCategory(t *testing.T) {
	c := New()
	assert.False(t, c.HasCategory(MsLevel))

	require.NoError(t, c.StoreValue(MsLevel, "scan=1", 1))
	require.NoError(t, c.StoreMap(MsLevel, map[any]any{"scan=2": 2, "scan=3": 2}))
	assert.True(t, c.HasCategory(MsLevel))

	v, ok := c.Get(MsLevel, "scan=2")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Get(MsLevel, "scan=9")
	assert.False(t, ok)

	lvl, ok := Lookup[int](c, MsLevel, "scan=1")
	assert.True(t, ok)
	assert.Equal(t, 1, lvl)

	_, ok = Lookup[string](c, MsLevel, "scan=1")
	assert.False(t, ok)

	assert.Equal(t, []any{1, 2}, c.GetInBatch(MsLevel, []any{"scan=1", "scan=9", "scan=3"}))
	assert.Equal(t, map[string]int{"scan=1": 1, "scan=2": 2, "scan=3": 2}, Entries[string, int](c, MsLevel))

	// later values replace earlier ones
	require.NoError(t, c.StoreValue(MsLevel, "scan=1", 3))
	lvl, _ = Lookup[int](c, MsLevel, "scan=1")
	assert.Equal(t, 3, lvl)
}

func TestListAndSetCategories(t *testing.T) {
	c := New()
	require.NoError(t, c.StoreCollection(SpectrumIDs, []any{"a", "b"}))
	require.NoError(t, c.StoreCollection(SpectrumIDs, []any{"b"}))
	assert.Equal(t, []string{"a", "b", "b"}, Values[string](c, SpectrumIDs))

	require.NoError(t, c.Store(SearchEngineTypes, "mascot"))
	require.NoError(t, c.StoreCollection(SearchEngineTypes, []any{"sequest", "mascot"}))
	assert.Equal(t, []string{"mascot", "sequest"}, Values[string](c, SearchEngineTypes))

	v, ok := c.Get(SearchEngineTypes, "sequest")
	assert.True(t, ok)
	assert.Equal(t, "sequest", v)
	_, ok = c.Get(SearchEngineTypes, "omssa")
	assert.False(t, ok)

	// lists have no keyed access
	_, ok = c.Get(SpectrumIDs, "a")
	assert.False(t, ok)
}

func TestGetAllReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.StoreValue(PrecursorMz, "s1", 445.34))
	require.NoError(t, c.StoreCollection(SpectrumIDs, []any{"s1"}))

	all, ok := c.GetAll(PrecursorMz)
	require.True(t, ok)
	m := all.(map[any]any)
	m["s2"] = 1.0
	delete(m, "s1")

	all, _ = c.GetAll(SpectrumIDs)
	l := all.([]any)
	l[0] = "changed"

	v, ok := c.Get(PrecursorMz, "s1")
	assert.True(t, ok)
	assert.Equal(t, 445.34, v)
	_, ok = c.Get(PrecursorMz, "s2")
	assert.False(t, ok)
	assert.Equal(t, []string{"s1"}, Values[string](c, SpectrumIDs))

	_, ok = c.GetAll(Samples)
	assert.False(t, ok)
}

func TestPreconditions(t *testing.T) {
	c := New()
	var nilPtr *int
	type wrappedKey struct{ v any }

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil key", c.StoreValue(MsLevel, nil, 1), ErrNilKey},
		{"nil pointer key", c.Store(SearchEngineTypes, nilPtr), ErrNilKey},
		{"nil value", c.StoreValue(MsLevel, "a", nil), ErrNilValue},
		{"nil map", c.StoreMap(MsLevel, nil), ErrNilValue},
		{"nil collection", c.StoreCollection(SpectrumIDs, nil), ErrNilValue},
		{"nil member", c.StoreCollection(SpectrumIDs, []any{"a", nil}), ErrNilValue},
		{"nil map entry", c.StoreMap(MsLevel, map[any]any{"a": nil}), ErrNilValue},
		{"uncomparable key", c.StoreValue(MsLevel, []int{1}, 1), ErrUncomparableKey},
		{"key wrapping a slice", c.StoreValue(Spectrum, wrappedKey{v: []int{1}}, "x"), ErrUncomparableKey},
		{"set member wrapping a map", c.Store(SearchEngineTypes, wrappedKey{v: map[int]int{}}), ErrUncomparableKey},
		{"collection member wrapping a slice", c.StoreCollection(SearchEngineTypes, []any{wrappedKey{v: []int{1}}}), ErrUncomparableKey},
		{"set into list", c.Store(SpectrumIDs, "a"), ErrKindMismatch},
		{"value into set", c.StoreValue(SearchEngineTypes, "a", 1), ErrKindMismatch},
		{"collection into map", c.StoreCollection(MsLevel, []any{1}), ErrKindMismatch},
		{"map into list", c.StoreMap(SpectrumIDs, map[any]any{"a": 1}), ErrKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}

	// a failed write creates nothing
	assert.False(t, c.HasCategory(MsLevel))
	assert.False(t, c.HasCategory(SpectrumIDs))
	assert.False(t, c.HasCategory(Spectrum))
	assert.False(t, c.HasCategory(SearchEngineTypes))

	// comparable values inside interface fields are fine
	require.NoError(t, c.StoreValue(Spectrum, wrappedKey{v: "scan=1"}, "x"))
	v, ok := c.Get(Spectrum, wrappedKey{v: "scan=1"})
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	// empty batches are no-ops
	assert.NoError(t, c.StoreMap(MsLevel, map[any]any{}))
	assert.NoError(t, c.StoreCollection(SpectrumIDs, []any{}))
	assert.False(t, c.HasCategory(MsLevel))
}

func TestDescriptorOverride(t *testing.T) {
	c := New(WithDescriptors(map[Category]Descriptor{Samples: {Kind: MapKind, Size: 4}}))
	assert.Equal(t, Descriptor{Kind: MapKind, Size: 4}, c.Descriptor(Samples))
	assert.Equal(t, Descriptor{Kind: ListKind}, c.Descriptor(Contacts))

	require.NoError(t, c.StoreValue(Samples, "sample1", "liver"))
	assert.ErrorIs(t, c.StoreCollection(Samples, []any{"x"}), ErrKindMismatch)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.StoreValue(MsLevel, "a", 1))
	require.NoError(t, c.Store(SearchEngineTypes, "mascot"))

	c.Clear(MsLevel)
	assert.False(t, c.HasCategory(MsLevel))
	assert.True(t, c.HasCategory(SearchEngineTypes))

	c.ClearAll()
	assert.False(t, c.HasCategory(SearchEngineTypes))
	require.NoError(t, c.StoreValue(MsLevel, "a", 2))
	v, _ := c.Get(MsLevel, "a")
	assert.Equal(t, 2, v)
}

func TestConcurrentFirstWrites(t *testing.T) {
	c := New()
	const writers = 32

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.StoreValue(PrecursorCharge, i, i%4))
			assert.NoError(t, c.StoreCollection(SpectrumIDs, []any{i}))
			c.Get(PrecursorCharge, i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, Entries[int, int](c, PrecursorCharge), writers)
	assert.Len(t, Values[int](c, SpectrumIDs), writers)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c := New(WithMetrics(m))
	require.NoError(t, c.StoreMap(MsLevel, map[any]any{"a": 1, "b": 2}))
	c.Get(MsLevel, "a")
	c.Get(MsLevel, "a")
	c.Get(MsLevel, "z")
	c.Get(Spectrum, "z")

	label := MsLevel.String()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.storesTotal.WithLabelValues(label)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.hitsTotal.WithLabelValues(label)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.missesTotal.WithLabelValues(label)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.missesTotal.WithLabelValues(Spectrum.String())))

	// a second set of counters cannot share the registry
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
